// Package autosave provides an explicit debounced-write primitive.
//
// A Debouncer coalesces rapid Set calls into a single save after a quiet
// period, replacing ambient interval timers with a value that can be
// flushed, cancelled, and closed deterministically. It is a convenience,
// not a correctness mechanism: concurrent writers still race with
// last-write-wins semantics.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDelay is the quiet period before a pending value is saved.
const DefaultDelay = 2500 * time.Millisecond

// ErrClosed is returned by operations on a closed Debouncer.
var ErrClosed = errors.New("debouncer is closed")

// SaveFunc persists one coalesced value.
type SaveFunc[T any] func(ctx context.Context, value T) error

// Debouncer holds at most one pending value and a cancellable timer.
type Debouncer[T any] struct {
	delay  time.Duration
	save   SaveFunc[T]
	logger *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *T
	closed  bool
}

// New creates a Debouncer. A delay <= 0 falls back to DefaultDelay.
func New[T any](delay time.Duration, save SaveFunc[T], logger *zap.Logger) (*Debouncer[T], error) {
	if save == nil {
		return nil, errors.New("save callback is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{
		delay:  delay,
		save:   save,
		logger: logger,
	}, nil
}

// Set records a value and restarts the quiet-period timer. Rapid calls
// replace the pending value; only the last one is saved.
func (d *Debouncer[T]) Set(value T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	d.pending = &value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
	return nil
}

// fire runs on timer expiry and saves the pending value, if any.
func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if d.closed || d.pending == nil {
		d.mu.Unlock()
		return
	}
	value := *d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if err := d.save(context.Background(), value); err != nil {
		d.logger.Warn("debounced save failed", zap.Error(err))
	}
}

// Flush saves any pending value immediately and stops the timer.
func (d *Debouncer[T]) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.pending == nil {
		d.mu.Unlock()
		return nil
	}
	value := *d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	return d.save(ctx, value)
}

// Cancel drops the pending value without saving it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Close cancels any pending save and rejects further use.
func (d *Debouncer[T]) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return nil
}
