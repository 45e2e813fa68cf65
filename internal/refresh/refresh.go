// Package refresh re-resolves stored books in bulk and records each batch as
// a run.
package refresh

import (
	"time"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Run is one batch refresh. Counters are stored when it leaves RUNNING.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	Status        string     `json:"status"`
	MissingOnly   bool       `json:"missing_only"`
	BooksScanned  int        `json:"books_scanned"`
	BooksResolved int        `json:"books_resolved"`
	BooksUpdated  int        `json:"books_updated"`
	BooksFailed   int        `json:"books_failed"`
	Error         string     `json:"error,omitempty"`
}

// Options narrows a run.
type Options struct {
	// MissingOnly skips books that already have a cover.
	MissingOnly bool `json:"missing_only"`
	// Limit caps the number of books scanned. Zero means all.
	Limit int `json:"limit" validate:"gte=0,lte=100000"`
}
