package state

import (
	"context"
	"time"

	"github.com/alexanderramin/pulse/internal/logging"
)

// ActionEvent captures lightweight execution telemetry for a holder action.
type ActionEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	StartedAt time.Time
}

// ActionObserver receives action execution events.
type ActionObserver interface {
	ObserveAction(ctx context.Context, event ActionEvent)
}

// NoopActionObserver ignores all events.
type NoopActionObserver struct{}

func (NoopActionObserver) ObserveAction(context.Context, ActionEvent) {}

type logActionObserver struct {
	log logging.Logger
}

// NewLogActionObserver writes action events to log. A nil logger yields a
// no-op observer.
func NewLogActionObserver(log logging.Logger) ActionObserver {
	if log == nil {
		return NoopActionObserver{}
	}
	return &logActionObserver{log: log}
}

func (o *logActionObserver) ObserveAction(_ context.Context, e ActionEvent) {
	fields := []any{
		"action", e.Name,
		"duration_ms", e.Duration.Milliseconds(),
		"success", e.Success,
	}
	if e.Err != nil {
		o.log.Errorw("state_action", append(fields, "error", e.Err.Error())...)
		return
	}
	o.log.Infow("state_action", fields...)
}
