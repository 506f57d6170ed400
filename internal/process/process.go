// Package process finds and signals stale instances of the target program.
//
// A Terminator is any mechanism that can make a previous instance go away:
// scanning /proc directly, shelling out to pkill, or asking systemd to stop
// the unit that owns it. Callers treat every Terminator as best effort.
package process

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"syscall"
)

// ErrToolUnavailable is returned when the external matching tool is missing.
var ErrToolUnavailable = errors.New("termination tool unavailable")

// Result describes what a single Terminator did.
type Result struct {
	// Source names the mechanism, e.g. "procfs" or "pkill".
	Source string
	// PIDs lists the processes that were signalled, when known.
	PIDs []int
	// Matched is true if at least one process or unit was affected.
	Matched bool
}

// Terminator signals every process whose command line contains pattern.
type Terminator interface {
	Terminate(ctx context.Context, pattern string, sig syscall.Signal) (Result, error)
}

// Kind selects a Terminator implementation.
type Kind string

const (
	KindProc  Kind = "proc"
	KindPkill Kind = "pkill"
)

// DefaultKind returns the preferred Kind for the running platform.
// Only Linux exposes command lines under /proc.
func DefaultKind() Kind {
	if runtime.GOOS == "linux" {
		return KindProc
	}
	return KindPkill
}

// New returns the Terminator for kind.
func New(kind Kind) (Terminator, error) {
	switch kind {
	case "", KindProc:
		return &ProcScanner{}, nil
	case KindPkill:
		return &Pkill{}, nil
	default:
		return nil, fmt.Errorf("unknown killer %q (want %s or %s)", kind, KindProc, KindPkill)
	}
}
