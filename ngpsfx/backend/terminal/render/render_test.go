package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogBuffer_Wraps(t *testing.T) {
	lb := NewLogBuffer(3)
	for i, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Time: time.Unix(int64(i), 0), Message: msg})
	}

	recent := lb.GetRecent(0)
	var msgs []string
	for _, e := range recent {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"d", "c", "b"}, msgs)
	assert.Len(t, lb.GetRecent(2), 2)

	lb.Clear()
	assert.Nil(t, lb.GetRecent(5))
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	logger := slog.New(NewLogBufferHandler(lb, slog.LevelInfo))

	logger.Debug("hidden")
	logger.With("backend", "terminal").WithGroup("psg").Info("write", "value", 0x9F)

	entries := lb.GetRecent(0)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "write backend=terminal psg.value=159", entries[0].Message)
		assert.Equal(t, slog.LevelInfo, entries[0].Level)
	}
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 30, 5, 0, time.UTC)
	assert.Equal(t, "12:30:05 [WRN] busy", FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelWarn, Message: "busy"}))
}

func TestMeter(t *testing.T) {
	assert.Equal(t, "·····", Meter(0, 5))
	assert.Equal(t, "█████", Meter(15, 5))
	assert.Equal(t, "██···", Meter(7, 5))
	assert.Equal(t, "", Meter(15, 0))
}

func TestScope(t *testing.T) {
	assert.Equal(t, "▀▀▄▄─", Scope([]float32{1, 0.5, -0.5, -1, 0}))
	assert.Equal(t, "", Scope(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "he...", Truncate("hello world", 5))
	assert.Equal(t, "he", Truncate("hello", 2))
	assert.Equal(t, "", Truncate("hello", 0))
}
