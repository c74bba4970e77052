package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/use-agent/jobscrape/config"
	"github.com/use-agent/jobscrape/models"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS jobs (
	id         BIGSERIAL PRIMARY KEY,
	title      TEXT NOT NULL,
	company    TEXT NOT NULL,
	location   TEXT NOT NULL,
	experience TEXT NOT NULL,
	link       TEXT
)`

const insertSQL = `INSERT INTO jobs (title, company, location, experience, link)
VALUES ($1, $2, $3, $4, $5) RETURNING id`

const selectAllSQL = `SELECT id, title, company, location, experience, link
FROM jobs ORDER BY id`

const selectFilteredSQL = `SELECT id, title, company, location, experience, link
FROM jobs
WHERE title ILIKE $1 ESCAPE '\' OR company ILIKE $1 ESCAPE '\'
ORDER BY id`

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres opens and verifies a connection pool.
func NewPostgres(ctx context.Context, cfg config.StoreConfig) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolCfg.MaxConns {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("store: pgxpool.NewWithConfig: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: postgres ping failed: %w", err)
	}

	slog.Info("postgres store connected",
		"host", poolCfg.ConnConfig.Host,
		"database", poolCfg.ConnConfig.Database,
		"maxConns", poolCfg.MaxConns,
	)
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) CreateSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

func (p *Postgres) InsertBatch(ctx context.Context, jobs []models.JobListing) ([]models.JobListing, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("store: begin transaction: %w", err)
	}

	out, err := insertAll(ctx, tx, jobs)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return nil, fmt.Errorf("store: rollback failed: %v (original err: %w)", rbErr, err)
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}
	return out, nil
}

func insertAll(ctx context.Context, tx pgx.Tx, jobs []models.JobListing) ([]models.JobListing, error) {
	batch := &pgx.Batch{}
	for _, j := range jobs {
		batch.Queue(insertSQL, j.Title, j.Company, j.Location, j.Experience, j.Link)
	}

	br := tx.SendBatch(ctx, batch)
	out := make([]models.JobListing, len(jobs))
	for i, j := range jobs {
		if err := br.QueryRow().Scan(&j.ID); err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("store: insert job %d of %d: %w", i+1, len(jobs), err)
		}
		out[i] = j
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("store: insert batch: %w", err)
	}
	return out, nil
}

func (p *Postgres) Query(ctx context.Context, filter string) ([]models.JobListing, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filter == "" {
		rows, err = p.pool.Query(ctx, selectAllSQL)
	} else {
		rows, err = p.pool.Query(ctx, selectFilteredSQL, containsPattern(filter))
	}
	if err != nil {
		return nil, fmt.Errorf("store: query jobs: %w", err)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JobListing, error) {
		var j models.JobListing
		err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Experience, &j.Link)
		return j, err
	})
	if err != nil {
		return nil, fmt.Errorf("store: scan jobs: %w", err)
	}
	return jobs, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}
