package resizetizer

import (
	"context"
	"log/slog"
	"sync"
)

// logRecorder is a slog handler keeping every record message for assertions.
type logRecorder struct {
	mu       sync.Mutex
	level    slog.Level
	messages []string
}

var _ slog.Handler = &logRecorder{}

func (lr *logRecorder) Enabled(_ context.Context, l slog.Level) bool {
	return l >= lr.level
}

func (lr *logRecorder) Handle(_ context.Context, rec slog.Record) error {
	lr.mu.Lock()
	lr.messages = append(lr.messages, rec.Message)
	lr.mu.Unlock()
	return nil
}

func (lr *logRecorder) WithAttrs([]slog.Attr) slog.Handler {
	return lr
}

func (lr *logRecorder) WithGroup(string) slog.Handler {
	return lr
}

// count returns the number of records with the message.
func (lr *logRecorder) count(msg string) int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	n := 0
	for _, m := range lr.messages {
		if m == msg {
			n++
		}
	}
	return n
}
