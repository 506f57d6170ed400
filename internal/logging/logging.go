// Package logging configures the process-wide slog logger.
//
// Interactive runs log text to stderr. When started from a desktop autostart
// entry or a systemd unit there is no terminal to read, so records go to the
// journal instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/coreos/go-systemd/v22/journal"
	"golang.org/x/term"
)

// Mode selects where log records are written.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeStderr  Mode = "stderr"
	ModeJournal Mode = "journal"
)

// ParseMode validates a --log value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeStderr, ModeJournal:
		return m, nil
	default:
		return "", fmt.Errorf("unknown log mode %q (want auto, stderr or journal)", s)
	}
}

// Options configures New.
type Options struct {
	Mode  Mode
	Level slog.Level
	// Stderr is the fallback destination. Nil means os.Stderr.
	Stderr *os.File
}

// New builds a logger for opts.
func New(opts Options) *slog.Logger {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}

	if resolve(opts.Mode, stderr) == ModeJournal {
		return slog.New(NewJournalHandler(hopts))
	}
	return slog.New(slog.NewTextHandler(stderr, hopts))
}

// Setup builds a logger for opts and installs it as the slog default.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}

// resolve turns ModeAuto into a concrete mode.
func resolve(mode Mode, stderr *os.File) Mode {
	switch mode {
	case ModeJournal:
		if journal.Enabled() {
			return ModeJournal
		}
		return ModeStderr
	case ModeStderr:
		return ModeStderr
	}
	if journal.Enabled() && !isTerminal(stderr) {
		return ModeJournal
	}
	return ModeStderr
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
