package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/jobscrape/config"
	"github.com/use-agent/jobscrape/notify"
	"github.com/use-agent/jobscrape/store"
)

func TestBuildNotifier_NoneConfigured(t *testing.T) {
	n, closeFn := buildNotifier(context.Background(), config.NotifyConfig{})
	defer closeFn()
	assert.IsType(t, notify.Nop{}, n)
}

func TestBuildNotifier_WebhookOnly(t *testing.T) {
	n, closeFn := buildNotifier(context.Background(), config.NotifyConfig{WebhookURL: "http://127.0.0.1:1/hook"})
	defer closeFn()

	multi, ok := n.(notify.Multi)
	require.True(t, ok)
	assert.Len(t, multi, 1)
}

func TestBuildNotifier_BadRedisIsSkipped(t *testing.T) {
	n, closeFn := buildNotifier(context.Background(), config.NotifyConfig{RedisURL: "not-a-url", RedisChannel: "jobs.scraped"})
	defer closeFn()
	assert.IsType(t, notify.Nop{}, n)
}

func TestOpenStore_MemoryWithoutDSN(t *testing.T) {
	st, err := openStore(context.Background(), config.StoreConfig{})
	require.NoError(t, err)
	defer st.Close()
	assert.IsType(t, &store.Memory{}, st)
}
