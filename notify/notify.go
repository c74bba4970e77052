// Package notify announces completed scrapes to external listeners.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/use-agent/jobscrape/models"
)

// EventJobsScraped is the only event type emitted.
const EventJobsScraped = "jobs.scraped"

// Event is the payload published after a batch has been stored.
type Event struct {
	ID        string              `json:"id"`
	Type      string              `json:"type"`
	Keyword   string              `json:"keyword"`
	Count     int                 `json:"count"`
	Timestamp int64               `json:"timestamp"`
	Jobs      []models.JobListing `json:"jobs"`
}

// NewJobsScraped builds the event for a stored batch.
func NewJobsScraped(keyword string, jobs []models.JobListing) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      EventJobsScraped,
		Keyword:   keyword,
		Count:     len(jobs),
		Timestamp: time.Now().Unix(),
		Jobs:      jobs,
	}
}

// Notifier delivers an event once. Implementations do not retry.
type Notifier interface {
	Notify(ctx context.Context, event *Event) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event *Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(context.Context, *Event) error { return nil }
