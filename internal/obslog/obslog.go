// Package obslog builds the slog.Logger every musiccore component is
// constructed with. It wraps a handler with PII redaction (spec §4.7) and
// picks JSON vs. text output the way the teacher's logging setup does:
// JSON when the output stream isn't a terminal, human-readable otherwise.
package obslog

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Format selects the wire shape of emitted log records.
type Format int

const (
	// FormatAuto picks JSON when Options.Output is not a TTY (matches teacher's
	// internal/config LoggingConfig.LogFormat "auto" behavior), Pretty otherwise.
	FormatAuto Format = iota
	FormatJSON
	FormatPretty
	FormatCompact
)

// Options configures New.
type Options struct {
	Format Format
	Level  slog.Level
	Output *os.File // defaults to os.Stderr

	// Whitelist names fields that should NOT be redacted even though they
	// match a redaction pattern (e.g. a provider's public display name).
	Whitelist []string
}

// New builds a redacting, format-selecting *slog.Logger.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format := opts.Format
	if format == FormatAuto {
		if isatty.IsTerminal(out.Fd()) {
			format = FormatPretty
		} else {
			format = FormatJSON
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var base slog.Handler
	switch format {
	case FormatJSON:
		base = slog.NewJSONHandler(out, handlerOpts)
	case FormatCompact:
		handlerOpts.ReplaceAttr = compactAttrs
		base = slog.NewTextHandler(out, handlerOpts)
	default: // FormatPretty
		base = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(&redactingHandler{next: base, whitelist: toSet(opts.Whitelist)})
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}

	return set
}

// compactAttrs drops the time key so Compact output reads as a
// single dense line — matched to how the teacher's "compact" CLI output
// strips timestamps for interactive use.
func compactAttrs(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && (a.Key == slog.TimeKey) {
		return slog.Attr{}
	}

	return a
}

// redactingHandler wraps another slog.Handler and masks attribute values
// that look like secrets (tokens, emails, absolute filesystem paths)
// before handing the record to next. Whitelisted keys pass through
// unmodified.
type redactingHandler struct {
	next      slog.Handler
	whitelist map[string]struct{}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))

		return true
	})

	return h.next.Handle(ctx, redacted)
}

func (h *redactingHandler) redactAttr(a slog.Attr) slog.Attr {
	if _, ok := h.whitelist[a.Key]; ok {
		return a
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, Redact(a.Value.String()))
	}

	return a
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for i, a := range attrs {
		attrs[i] = h.redactAttr(a)
	}

	return &redactingHandler{next: h.next.WithAttrs(attrs), whitelist: h.whitelist}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{next: h.next.WithGroup(name), whitelist: h.whitelist}
}
