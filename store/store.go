// Package store persists job listings and answers filtered queries.
package store

import (
	"context"
	"strings"

	"github.com/use-agent/jobscrape/models"
)

// Store is the result sink and query service. Implementations are safe for
// concurrent use.
type Store interface {
	// CreateSchema creates the jobs table if it does not exist.
	CreateSchema(ctx context.Context) error

	// InsertBatch appends jobs in one all-or-nothing transaction and returns
	// them with their assigned ids, in input order.
	InsertBatch(ctx context.Context, jobs []models.JobListing) ([]models.JobListing, error)

	// Query returns every row when filter is empty, otherwise the rows whose
	// title or company contains filter as a case-insensitive literal
	// substring. Rows are ordered by id.
	Query(ctx context.Context, filter string) ([]models.JobListing, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close()
}

// likeEscaper escapes LIKE metacharacters so the filter matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds the ILIKE pattern for a literal substring match.
func containsPattern(filter string) string {
	return "%" + likeEscaper.Replace(filter) + "%"
}
