package remote

import (
	"context"
	"sync"

	"github.com/alexanderramin/pulse/internal/domain"
)

// TokenPersister saves the session between runs.
type TokenPersister interface {
	Save(ctx context.Context, s domain.AuthSession) error
	Load(ctx context.Context) (domain.AuthSession, error)
	Clear(ctx context.Context) error
}

// SessionHolder is the process-wide holder of the current auth session.
// It is safe for concurrent use.
type SessionHolder struct {
	mu      sync.RWMutex
	current domain.AuthSession
	persist TokenPersister
}

// NewSessionHolder creates a holder; persist may be nil for memory-only use.
func NewSessionHolder(persist TokenPersister) *SessionHolder {
	return &SessionHolder{persist: persist}
}

// Restore loads the persisted session into memory.
func (h *SessionHolder) Restore(ctx context.Context) (domain.AuthSession, error) {
	if h.persist == nil {
		return h.Get(), nil
	}
	s, err := h.persist.Load(ctx)
	if err != nil {
		return domain.AuthSession{}, err
	}
	h.mu.Lock()
	h.current = s
	h.mu.Unlock()
	return s, nil
}

func (h *SessionHolder) Get() domain.AuthSession {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *SessionHolder) Set(ctx context.Context, s domain.AuthSession) error {
	h.mu.Lock()
	h.current = s
	h.mu.Unlock()
	if h.persist == nil {
		return nil
	}
	return h.persist.Save(ctx, s)
}

func (h *SessionHolder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.current = domain.AuthSession{}
	h.mu.Unlock()
	if h.persist == nil {
		return nil
	}
	return h.persist.Clear(ctx)
}
