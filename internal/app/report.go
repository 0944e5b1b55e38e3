package app

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RunState is the terminal state of one reminder run.
type RunState string

const (
	RunStateEmpty       RunState = "empty"
	RunStateComplete    RunState = "complete"
	RunStateQueryFailed RunState = "query_failed"
	RunStateAborted     RunState = "aborted" // Context ended during fan-out
)

// RunReport summarises one reminder run for operators.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	State      RunState
	Err        error

	Matched              int
	Processed            int
	Skipped              int
	Duplicates           int
	NotificationsWritten int
	NotificationFailures int
	PushesSent           int
	PushFailures         int
	TokensSucceeded      int
	TokensFailed         int

	mu sync.Mutex
}

func (r *RunReport) add(fn func(r *RunReport)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

// handled counts subscriptions that reached a terminal outcome.
func (r *RunReport) handled() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Processed + r.Skipped + r.Duplicates
}

// Duration is the wall-clock time the run took.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary renders the report as a short human-readable block.
func (r *RunReport) Summary() string {
	s := fmt.Sprintf("Reminder run %s: %s\nStarted: %s\nDuration: %s\nMatched: %d, processed: %d, skipped: %d, duplicates: %d\nNotifications: %d written, %d failed\nPush batches: %d sent, %d failed (tokens ok %d, failed %d)",
		r.RunID, r.State,
		r.StartedAt.Format(time.RFC3339), r.Duration().Round(time.Millisecond),
		r.Matched, r.Processed, r.Skipped, r.Duplicates,
		r.NotificationsWritten, r.NotificationFailures,
		r.PushesSent, r.PushFailures, r.TokensSucceeded, r.TokensFailed)
	if r.Err != nil {
		s += "\nError: " + r.Err.Error()
	}
	return s
}

// RunObserver is told about every finished run.
type RunObserver interface {
	RunFinished(ctx context.Context, report *RunReport)
}
