package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
	"go.uber.org/zap"
)

// DefaultInterval is the period between scheduled flushes.
const DefaultInterval = 60 * time.Second

// flushTimeout bounds a single delivery attempt, including the final
// flush on shutdown.
const flushTimeout = 30 * time.Second

// Sender delivers a batch to the ingestion boundary and reports how many
// events were accepted.
type Sender interface {
	SendBatch(ctx context.Context, username string, batch []event.Activity) (int, error)
}

// TransientError marks a delivery failure that is safe to retry: the batch
// is requeued and resent on the next flush.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient: %v", e.Err) }

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable delivery failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Syncer periodically flushes a session's buffered events to a Sender.
// Delivery is at-least-once: a batch that partially succeeded server-side
// before a reported failure is resent in full, and nothing downstream
// deduplicates. Consumers of the aggregates must tolerate replays.
type Syncer struct {
	session  *Session
	sender   Sender
	logger   *zap.Logger
	interval time.Duration

	inFlight atomic.Bool
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithInterval overrides the flush period.
func WithInterval(d time.Duration) Option {
	return func(s *Syncer) { s.interval = d }
}

// WithLogger sets the syncer's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// New creates a Syncer flushing the given session through sender.
func New(session *Session, sender Sender, opts ...Option) *Syncer {
	s := &Syncer{
		session:  session,
		sender:   sender,
		logger:   zap.NewNop(),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the periodic flush until ctx is cancelled, then stops the
// session and performs one final synchronous flush so shutdown never
// depends on runtime teardown ordering. Flush errors inside the loop are
// logged, not fatal: the batch is requeued and the next tick retries.
func (s *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.session.stop()
			final, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			if _, err := s.Flush(final); err != nil {
				return fmt.Errorf("final flush: %w", err)
			}
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Flush(ctx); err != nil {
				s.logger.Warn("flush failed", zap.Error(err))
			}
		}
	}
}

// Flush atomically takes the pending buffer and attempts delivery. At most
// one flush is in flight at a time; a flush triggered while one is
// outstanding is a no-op and relies on the next tick to catch the backlog.
//
// On transient failure the batch is prepended back ahead of events
// recorded meanwhile, preserving order for the retry. A non-retryable
// failure (the server rejected the batch) discards the batch: resending
// it verbatim can never succeed.
func (s *Syncer) Flush(ctx context.Context) (int, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.inFlight.Store(false)

	batch := s.session.take()
	if len(batch) == 0 {
		return 0, nil
	}

	accepted, err := s.sender.SendBatch(ctx, s.session.Username, batch)
	if err != nil {
		if IsTransient(err) {
			s.session.requeue(batch)
			return 0, err
		}
		s.logger.Error("batch rejected, discarding",
			zap.Int("events", len(batch)), zap.Error(err))
		return 0, err
	}

	s.logger.Debug("batch delivered",
		zap.String("session", s.session.ID), zap.Int("accepted", accepted))
	return accepted, nil
}
