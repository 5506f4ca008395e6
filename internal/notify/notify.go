// Package notify delivers reservation notifications to downstream consumers.
//
// The workflow treats delivery as best-effort: a failed send is logged and
// counted, never escalated to the session operation that triggered it.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/meeting-coordinator/internal/metrics"
)

// Kind distinguishes the reservation lifecycle notifications.
type Kind string

const (
	// KindTentative announces a provisional hold on an account's calendar.
	KindTentative Kind = "tentative_reservation"
	// KindCommitted announces that a candidate was committed.
	KindCommitted Kind = "committed_reservation"
	// KindReleased announces that a hold was given up.
	KindReleased Kind = "released_reservation"
)

// Reservation is the notification payload handed to consumers.
type Reservation struct {
	Kind      Kind
	SessionID string
	HoldID    string
	AccountID string
	Start     time.Time
	End       time.Time
	EventID   string
	SentAt    time.Time
}

// Sink accepts reservation notifications.
type Sink interface {
	Send(ctx context.Context, reservation Reservation) error
}

// ErrQueueClosed is returned when sending to a closed queue.
var ErrQueueClosed = errors.New("notify: queue closed")

// ErrQueueFull is returned when the queue's buffer is exhausted.
var ErrQueueFull = errors.New("notify: queue full")

const defaultBufferSize = 1024

// Queue is a bounded in-memory Sink whose consumers drain via Dequeue.
type Queue struct {
	reservations chan Reservation
	mu           sync.RWMutex
	closed       bool
}

// Option customises queue construction.
type Option func(*queueConfig)

type queueConfig struct {
	bufferSize int
}

// WithBufferSize overrides the queue's buffer capacity.
func WithBufferSize(size int) Option {
	return func(cfg *queueConfig) {
		if size > 0 {
			cfg.bufferSize = size
		}
	}
}

// NewQueue builds an in-memory notification queue.
func NewQueue(opts ...Option) *Queue {
	cfg := queueConfig{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Queue{reservations: make(chan Reservation, cfg.bufferSize)}
}

// Send enqueues a reservation without blocking. A full or closed queue is an
// error for the caller to log.
func (q *Queue) Send(ctx context.Context, reservation Reservation) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordNotificationFailure()
		return ErrQueueClosed
	}

	select {
	case q.reservations <- reservation:
		return nil
	case <-ctx.Done():
		metrics.RecordNotificationFailure()
		return ctx.Err()
	default:
		metrics.RecordNotificationFailure()
		return ErrQueueFull
	}
}

// Dequeue exposes the consumer side of the queue.
func (q *Queue) Dequeue() <-chan Reservation {
	return q.reservations
}

// Len reports the number of buffered notifications.
func (q *Queue) Len() int {
	return len(q.reservations)
}

// Close stops the queue; subsequent sends fail with ErrQueueClosed.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.reservations)
	return nil
}
