package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "ipc", log.WarnLevel, false, false, log.TextFormatter)

	l.Info("dropped")
	l.Warn("kept", "id", "req_1")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "ipc")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, "req_1")
}

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	defer log.SetReportCaller(false)

	Setup(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Equal(t, log.DebugLevel, New("x").GetLevel())

	Setup(false)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
