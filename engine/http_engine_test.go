package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEngine_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title> Jobs </title></head><body><div class="jobTuple"></div></body></html>`))
	}))
	defer srv.Close()

	e := NewHTTPEngine([]string{"test-agent/1.0"})
	res, err := e.Fetch(context.Background(), &FetchRequest{URL: srv.URL + "/product-manager-jobs"})
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "test-agent/1.0", res.UserAgent)
	assert.Equal(t, "Jobs", res.Title)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "http", res.EngineName)
	assert.Contains(t, res.HTML, "jobTuple")
	assert.Equal(t, srv.URL+"/product-manager-jobs", res.FinalURL)
}

func TestHTTPEngine_RequestUserAgentWins(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	e := NewHTTPEngine([]string{"pool-agent"})
	_, err := e.Fetch(context.Background(), &FetchRequest{URL: srv.URL, UserAgent: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", gotUA)
}

func TestHTTPEngine_NonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewHTTPEngine(nil).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusOK, se.StatusCode)
}

func TestHTTPEngine_ErrorStatusKeepsHTMLBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<html><head><title>Access Denied</title></head><body><div id="captcha"></div></body></html>`))
	}))
	defer srv.Close()

	res, err := NewHTTPEngine(nil).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "Access Denied", res.Title)
	assert.Contains(t, res.HTML, `id="captcha"`)
}

func TestHTTPEngine_ErrorStatusWithoutHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPEngine(nil).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func TestHTTPEngine_SendsSearchHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	_, err := NewHTTPEngine(nil).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	require.NoError(t, err)
	for k, v := range SearchHeaders() {
		assert.Equal(t, v, got.Get(k), k)
	}
	assert.Contains(t, got.Get("Accept"), "text/html")
}

func TestHTTPEngine_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPEngine(nil).Fetch(ctx, &FetchRequest{URL: srv.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsHTMLContentType(t *testing.T) {
	assert.True(t, isHTMLContentType("text/html; charset=utf-8"))
	assert.True(t, isHTMLContentType("Application/XHTML+XML"))
	assert.False(t, isHTMLContentType("application/json"))
	assert.False(t, isHTMLContentType(""))
	assert.False(t, isHTMLContentType("text/htmlish"))
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Hello", extractTitle(`<html><head><title> Hello </title></head></html>`))
	assert.Equal(t, "", extractTitle(`<html><head><title></title></head></html>`))
	assert.Equal(t, "", extractTitle(`<p>no title</p>`))
}

func TestPickUserAgent(t *testing.T) {
	assert.Equal(t, "", PickUserAgent(nil))
	assert.Equal(t, "only", PickUserAgent([]string{"only"}))

	pool := []string{"a", "b", "c"}
	for range 20 {
		assert.Contains(t, pool, PickUserAgent(pool))
	}
}
