package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
)

// DefaultProcRoot is where the kernel exposes per-process state.
const DefaultProcRoot = "/proc"

// Match is a running process whose command line contains the pattern.
type Match struct {
	PID     int
	Cmdline string
}

// ProcScanner matches processes by reading <Root>/<pid>/cmdline, the way
// `pkill -f` does, and signals them directly.
type ProcScanner struct {
	// Root overrides DefaultProcRoot.
	Root string
	// Self is never signalled. Zero means the current process.
	Self int
	// Kill sends sig to pid. Nil means kill(2).
	Kill func(pid int, sig syscall.Signal) error
}

var _ Terminator = (*ProcScanner)(nil)

// Find lists processes whose space-joined argv contains pattern, sorted by PID.
// Processes that exit while being read are skipped.
func (s *ProcScanner) Find(ctx context.Context, pattern string) ([]Match, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	root := s.root()
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	self := s.self()
	var matches []Match
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 || pid == self {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(root, e.Name(), "cmdline"))
		if err != nil {
			// Gone already, or hidden from us.
			continue
		}
		cmdline := joinCmdline(raw)
		if cmdline == "" {
			// Kernel threads and zombies have no argv.
			continue
		}
		if strings.Contains(cmdline, pattern) {
			matches = append(matches, Match{PID: pid, Cmdline: cmdline})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].PID < matches[j].PID })
	return matches, nil
}

// Terminate signals every match. A process that exits before it is signalled
// is not an error; any other signalling failure is collected and returned
// alongside the PIDs that were signalled.
func (s *ProcScanner) Terminate(ctx context.Context, pattern string, sig syscall.Signal) (Result, error) {
	res := Result{Source: "procfs"}
	matches, err := s.Find(ctx, pattern)
	if err != nil {
		return res, err
	}

	kill := s.Kill
	if kill == nil {
		kill = killPID
	}

	var errs []error
	for _, m := range matches {
		if err := kill(m.PID, sig); err != nil {
			if errors.Is(err, syscall.ESRCH) {
				continue
			}
			errs = append(errs, fmt.Errorf("signalling pid %d: %w", m.PID, err))
			continue
		}
		res.PIDs = append(res.PIDs, m.PID)
	}
	res.Matched = len(res.PIDs) > 0
	return res, errors.Join(errs...)
}

func (s *ProcScanner) root() string {
	if s.Root != "" {
		return s.Root
	}
	return DefaultProcRoot
}

func (s *ProcScanner) self() int {
	if s.Self != 0 {
		return s.Self
	}
	return os.Getpid()
}

// joinCmdline turns the NUL-separated argv from /proc into one line.
func joinCmdline(raw []byte) string {
	line := strings.TrimRight(string(raw), "\x00")
	return strings.ReplaceAll(line, "\x00", " ")
}
