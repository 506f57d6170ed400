package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// Identifier is sent as SYSLOG_IDENTIFIER so `journalctl -t relaunch` works.
const Identifier = "relaunch"

// sendFunc matches journal.Send.
type sendFunc func(message string, priority journal.Priority, vars map[string]string) error

// JournalHandler is a slog.Handler that writes each record to journald.
// Attributes become journal fields: upper-cased, with group names joined by "_".
type JournalHandler struct {
	level  slog.Leveler
	attrs  map[string]string
	prefix string
	send   sendFunc
}

var _ slog.Handler = (*JournalHandler)(nil)

// NewJournalHandler returns a handler that sends to the local journal.
func NewJournalHandler(opts *slog.HandlerOptions) *JournalHandler {
	h := &JournalHandler{
		level: slog.LevelInfo,
		attrs: map[string]string{"SYSLOG_IDENTIFIER": Identifier},
		send:  journal.Send,
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *JournalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	vars := make(map[string]string, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		vars[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(vars, h.prefix, a)
		return true
	})
	return h.send(r.Message, priority(r.Level), vars)
}

func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	for _, a := range attrs {
		addAttr(h2.attrs, h2.prefix, a)
	}
	return h2
}

func (h *JournalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.prefix = h.prefix + fieldName(name) + "_"
	return h2
}

func (h *JournalHandler) clone() *JournalHandler {
	attrs := make(map[string]string, len(h.attrs))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	return &JournalHandler{level: h.level, attrs: attrs, prefix: h.prefix, send: h.send}
}

func addAttr(vars map[string]string, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += fieldName(a.Key) + "_"
		}
		for _, ga := range a.Value.Group() {
			addAttr(vars, p, ga)
		}
		return
	}
	key := prefix + fieldName(a.Key)
	if key == "" {
		return
	}
	vars[key] = valueString(a.Value)
}

func valueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		if s, ok := v.Any().([]string); ok {
			return strings.Join(s, " ")
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

// fieldName converts an attribute key into a valid journal field name:
// A-Z, 0-9 and "_", not starting with "_" or a digit.
func fieldName(key string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(key) {
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.TrimLeft(b.String(), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "F_" + name
	}
	return name
}

func priority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}
