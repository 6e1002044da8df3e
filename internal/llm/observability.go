package llm

import (
	"github.com/alexanderramin/pulse/internal/logging"
)

// LLMCallEvent records metadata about a single provider call.
type LLMCallEvent struct {
	Provider  string
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes call events to the structured logger.
type LogObserver struct {
	log logging.Logger
}

func NewLogObserver(log logging.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(e LLMCallEvent) {
	fields := []any{
		"provider", e.Provider,
		"task", string(e.Task),
		"model", e.Model,
		"latency_ms", e.LatencyMs,
	}
	if e.Success {
		o.log.Infow("llm_call", fields...)
		return
	}
	o.log.Errorw("llm_call", append(fields, "error_code", e.ErrorCode)...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return NoopObserver{}
	}
	return o
}
