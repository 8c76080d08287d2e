package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("info level drops debug and time", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, false, "info")

		log.Debug("hidden")
		log.Info("submitted", "tx", "0xabc")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=submitted tx=0xabc")
		assert.NotContains(t, out, "time=")
	})

	t.Run("debug flag wins over env level", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, true, "error")

		log.Debug("state", "to", "PENDING")
		assert.Contains(t, buf.String(), "msg=state to=PENDING")
		assert.Contains(t, buf.String(), "time=")
	})
}
