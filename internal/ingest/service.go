// Package ingest accepts batches of raw activity events, validates them
// against the event model, and appends them to the activity store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
	"github.com/blackwell-systems/codepulse/internal/store"
	"go.uber.org/zap"
)

// DefaultTimeout bounds batch acceptance. A batch that cannot be fully
// validated and persisted in time fails atomically so the client resends
// the whole batch.
const DefaultTimeout = 10 * time.Second

// Service validates and durably persists event batches for known users.
type Service struct {
	db      *store.DB
	logger  *zap.Logger
	timeout time.Duration
}

// New creates an ingestion service backed by db.
func New(db *store.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger, timeout: DefaultTimeout}
}

// Result reports how many events a batch contributed.
type Result struct {
	Accepted int `json:"accepted"`
}

// BatchError wraps a validation failure with the index of the offending
// event. Acceptance is all-or-nothing: one bad event fails the batch, and
// the client resends everything.
type BatchError struct {
	Index int
	Err   *event.ValidationError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("activity %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Ingest validates every event in the batch and appends all of them as a
// single bulk write. The username is authoritative: it overwrites whatever
// identity the raw events carried. On success the user's last-active
// timestamp is refreshed; that update is idempotent and failure there does
// not fail the batch.
func (s *Service) Ingest(ctx context.Context, username string, batch []event.Activity) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.GetUser(ctx, username); err != nil {
		return Result{}, err
	}

	for i := range batch {
		batch[i].Username = username
		if err := event.Validate(&batch[i]); err != nil {
			verr := err.(*event.ValidationError)
			return Result{}, &BatchError{Index: i, Err: verr}
		}
	}

	if err := s.db.InsertActivities(ctx, batch); err != nil {
		return Result{}, fmt.Errorf("persisting batch: %w", err)
	}

	if err := s.db.TouchLastActive(ctx, username, time.Now()); err != nil {
		s.logger.Warn("updating last-active failed",
			zap.String("username", username), zap.Error(err))
	}

	s.logger.Debug("batch ingested",
		zap.String("username", username), zap.Int("accepted", len(batch)))

	return Result{Accepted: len(batch)}, nil
}

// Heartbeat refreshes a user's last-active timestamp without recording
// any activity.
func (s *Service) Heartbeat(ctx context.Context, username string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.TouchLastActive(ctx, username, at)
}
