package store

import (
	"context"
	"strings"
	"sync"

	"github.com/use-agent/jobscrape/models"
)

// Memory is an in-process Store used when no database is configured and in
// tests. Its contents are lost on restart.
type Memory struct {
	mu     sync.RWMutex
	rows   []models.JobListing
	lastID int64 // ids start at 1, so the zero value is ready to use
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) CreateSchema(context.Context) error { return nil }

func (m *Memory) InsertBatch(ctx context.Context, jobs []models.JobListing) ([]models.JobListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.JobListing, len(jobs))
	for i, j := range jobs {
		m.lastID++
		j.ID = m.lastID
		out[i] = j
	}
	m.rows = append(m.rows, out...)
	return cloneJobs(out), nil
}

func (m *Memory) Query(ctx context.Context, filter string) ([]models.JobListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if filter == "" {
		return cloneJobs(m.rows), nil
	}
	needle := strings.ToLower(filter)
	out := []models.JobListing{}
	for _, j := range m.rows {
		if strings.Contains(strings.ToLower(j.Title), needle) ||
			strings.Contains(strings.ToLower(j.Company), needle) {
			out = append(out, cloneJob(j))
		}
	}
	return out, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() {}

func cloneJobs(in []models.JobListing) []models.JobListing {
	out := make([]models.JobListing, len(in))
	for i, j := range in {
		out[i] = cloneJob(j)
	}
	return out
}

// cloneJob copies the Link pointer target so callers cannot mutate stored rows.
func cloneJob(j models.JobListing) models.JobListing {
	if j.Link != nil {
		link := *j.Link
		j.Link = &link
	}
	return j
}
