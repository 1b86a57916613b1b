package testutil

import (
	"log/slog"
	"sync"
)

// LoggedRecord is one call captured by FakeLoggerSink.
type LoggedRecord struct {
	Level slog.Level
	Msg   string
	Attrs []slog.Attr
}

// FakeLoggerSink implements capability.LoggerSink, recording every call
// so tests can assert on log output without a real slog.Handler.
type FakeLoggerSink struct {
	mu      sync.Mutex
	Records []LoggedRecord
}

func (f *FakeLoggerSink) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Records = append(f.Records, LoggedRecord{Level: level, Msg: msg, Attrs: attrs})
}

func (f *FakeLoggerSink) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.Records)
}
