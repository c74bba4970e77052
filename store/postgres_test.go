package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/use-agent/jobscrape/config"
)

// TestPostgres runs against a real database; set
// JOBSCRAPE_TEST_DATABASE_URL to a disposable database to enable it.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("JOBSCRAPE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("JOBSCRAPE_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := NewPostgres(ctx, config.StoreConfig{DatabaseURL: dsn, MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	defer pg.Close()

	_, err = pg.pool.Exec(ctx, "DROP TABLE IF EXISTS jobs")
	require.NoError(t, err)

	exerciseStore(t, pg)
}

func TestNewPostgres_BadURL(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.StoreConfig{DatabaseURL: "://not a url"})
	require.Error(t, err)
}
