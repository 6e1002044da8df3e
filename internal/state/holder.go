// Package state holds the observable state behind each CLI screen. Every
// holder keeps at most one user-facing error message.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/pulse/internal/remote"
)

// ErrInvalidInput is returned when an action rejects its arguments before
// calling out. The reason is in LastError.
var ErrInvalidInput = errors.New("invalid input")

// Options shared by every holder.
type Options struct {
	Observer ActionObserver
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Observer == nil {
		o.Observer = NoopActionObserver{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type holder struct {
	mu        sync.Mutex
	lastError string
	loading   bool
	obs       ActionObserver
	now       func() time.Time
}

func (h *holder) init(opts Options) {
	opts = opts.withDefaults()
	h.obs = opts.Observer
	h.now = opts.Now
}

// LastError is the message of the most recent failure, or "".
func (h *holder) LastError() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastError
}

// Loading reports whether an action is in flight.
func (h *holder) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

func (h *holder) setError(msg string) {
	h.mu.Lock()
	h.lastError = msg
	h.mu.Unlock()
}

// reject records msg and returns ErrInvalidInput.
func (h *holder) reject(msg string) error {
	h.setError(msg)
	return ErrInvalidInput
}

// run clears the last error, executes fn and reports it to the observer. A
// failure is flattened into LastError through remote.UserMessage.
func (h *holder) run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	h.mu.Lock()
	h.lastError = ""
	h.loading = true
	h.mu.Unlock()

	start := h.now()
	err := fn(ctx)

	h.mu.Lock()
	h.loading = false
	if err != nil && h.lastError == "" {
		h.lastError = remote.UserMessage(err)
	}
	h.mu.Unlock()

	h.obs.ObserveAction(ctx, ActionEvent{
		Name:      name,
		Duration:  h.now().Sub(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
	})
	return err
}
