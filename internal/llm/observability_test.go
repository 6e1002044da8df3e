package llm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/pulse/internal/logging"
)

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	zl, err := logging.New("debug", &buf)
	require.NoError(t, err)
	obs := NewLogObserver(logging.Sugar(zl))

	obs.OnCallComplete(LLMCallEvent{Provider: ProviderDify, Task: TaskChat, LatencyMs: 12, Success: true})
	obs.OnCallComplete(LLMCallEvent{Provider: ProviderSpark, Task: TaskChat, ErrorCode: "TIMEOUT"})

	out := buf.String()
	assert.Contains(t, out, "llm_call")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "dify")
	assert.Contains(t, out, "latency_ms")
	assert.Contains(t, out, "TIMEOUT")
}

func TestObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopObserver{}, observerOrNoop(nil))
	obs := &recordingObserver{}
	assert.Same(t, obs, observerOrNoop(obs))
}
