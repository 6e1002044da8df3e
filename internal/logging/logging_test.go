package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	zl, err := New("warn", &buf)
	require.NoError(t, err)

	log := Sugar(zl)
	log.Infof("hidden %d", 1)
	log.Warnf("shown %d", 2)
	require.NoError(t, zl.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Errorw("ignored", "k", "v")
}
