package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coreos/go-systemd/v22/journal"
)

type sentEntry struct {
	message  string
	priority journal.Priority
	vars     map[string]string
}

// captureHandler returns a JournalHandler whose sends are recorded instead of
// going to the real journal socket.
func captureHandler(level slog.Level) (*JournalHandler, *[]sentEntry) {
	var sent []sentEntry
	h := NewJournalHandler(&slog.HandlerOptions{Level: level})
	h.send = func(message string, priority journal.Priority, vars map[string]string) error {
		sent = append(sent, sentEntry{message, priority, vars})
		return nil
	}
	return h, &sent
}

func TestJournalHandler_FieldsAndPriority(t *testing.T) {
	h, sent := captureHandler(slog.LevelDebug)
	logger := slog.New(h).With("pattern", "slideshow.py")

	logger.Warn("signalled stale instance", "pid", 1234, "cmd-line", "python3 slideshow.py")

	if len(*sent) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(*sent))
	}
	e := (*sent)[0]
	if e.message != "signalled stale instance" {
		t.Errorf("message = %q", e.message)
	}
	if e.priority != journal.PriWarning {
		t.Errorf("priority = %v, want PriWarning", e.priority)
	}
	want := map[string]string{
		"SYSLOG_IDENTIFIER": "relaunch",
		"PATTERN":           "slideshow.py",
		"PID":               "1234",
		"CMD_LINE":          "python3 slideshow.py",
	}
	for k, v := range want {
		if e.vars[k] != v {
			t.Errorf("field %s = %q, want %q (all: %v)", k, e.vars[k], v, e.vars)
		}
	}
}

func TestJournalHandler_Groups(t *testing.T) {
	h, sent := captureHandler(slog.LevelInfo)
	slog.New(h).WithGroup("exec").Info("replacing process",
		"argv", []string{"/usr/bin/python3", "slideshow.py", "Alice"},
		slog.Group("dir", "path", "/home/pi/slides"))

	e := (*sent)[0]
	if got := e.vars["EXEC_ARGV"]; got != "/usr/bin/python3 slideshow.py Alice" {
		t.Errorf("EXEC_ARGV = %q", got)
	}
	if got := e.vars["EXEC_DIR_PATH"]; got != "/home/pi/slides" {
		t.Errorf("EXEC_DIR_PATH = %q (all: %v)", got, e.vars)
	}
}

func TestJournalHandler_LevelFilter(t *testing.T) {
	h, sent := captureHandler(slog.LevelInfo)
	logger := slog.New(h)

	logger.Debug("hidden")
	logger.Error("shown")

	if len(*sent) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(*sent))
	}
	if (*sent)[0].priority != journal.PriErr {
		t.Errorf("priority = %v, want PriErr", (*sent)[0].priority)
	}
}

func TestJournalHandler_WithAttrsDoesNotLeak(t *testing.T) {
	h, sent := captureHandler(slog.LevelInfo)
	base := slog.New(h)
	_ = base.With("guest", "Alice")

	base.Info("plain")
	if _, ok := (*sent)[0].vars["GUEST"]; ok {
		t.Errorf("attribute leaked into parent handler: %v", (*sent)[0].vars)
	}
}

func TestFieldName(t *testing.T) {
	tests := map[string]string{
		"pid":       "PID",
		"settle.ms": "SETTLE_MS",
		"_private":  "PRIVATE",
		"9lives":    "F_9LIVES",
		"Unit-Name": "UNIT_NAME",
		"":          "",
	}
	for in, want := range tests {
		if got := fieldName(in); got != want {
			t.Errorf("fieldName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "auto", "stderr", "journal"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q): %v", s, err)
		}
	}
	if _, err := ParseMode("syslog"); err == nil {
		t.Error("ParseMode(syslog): expected error")
	}
}

func TestResolve_StderrModeAndNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stderr"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := resolve(ModeStderr, f); got != ModeStderr {
		t.Errorf("resolve(stderr) = %q", got)
	}
	if isTerminal(f) {
		t.Error("regular file reported as terminal")
	}

	// Without a journal socket, auto and journal both fall back to stderr.
	if !journal.Enabled() {
		if got := resolve(ModeAuto, f); got != ModeStderr {
			t.Errorf("resolve(auto) without journal = %q", got)
		}
		if got := resolve(ModeJournal, f); got != ModeStderr {
			t.Errorf("resolve(journal) without journal = %q", got)
		}
	}
}

func TestNew_WritesTextToStderrFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stderr")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	logger := New(Options{Mode: ModeStderr, Level: slog.LevelInfo, Stderr: f})
	logger.Info("settling", "delay", "1s")
	f.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(raw); !strings.Contains(got, "msg=settling") || !strings.Contains(got, "delay=1s") {
		t.Errorf("log output = %q", got)
	}
}
