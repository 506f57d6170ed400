//go:build unix

package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/mbrock/relaunch/internal/dirs"
	"github.com/mbrock/relaunch/internal/launcher"
	"github.com/mbrock/relaunch/internal/platform/systemd"
	"github.com/mbrock/relaunch/internal/process"
)

// buildConfig turns the parsed flags into a launcher configuration.
func buildConfig() (launcher.Config, error) {
	cfg := launcher.DefaultConfig()
	cfg.ProjectDir = dirs.ExpandHome(dirFlag)
	cfg.Pattern = patternFlag
	cfg.Interpreter = interpreterFlag
	cfg.Program = programFlag
	cfg.SettleDelay = settleFlag

	sig, err := parseSignal(signalFlag)
	if err != nil {
		return cfg, err
	}
	cfg.Signal = sig

	terminators, err := buildTerminators(killerFlag, pkillPathFlag, unitFlag, systemUnitFlag)
	if err != nil {
		return cfg, err
	}
	cfg.Terminators = terminators

	return cfg, cfg.Validate()
}

// buildTerminators returns the unit stopper (if a unit is named) followed by
// the pattern killer.
func buildTerminators(killer, pkillPath, unit string, systemUnit bool) ([]process.Terminator, error) {
	var ts []process.Terminator

	if unit != "" {
		name, err := systemd.ParseUnitName(unit)
		if err != nil {
			return nil, err
		}
		stopper := &systemd.UnitStopper{Unit: name}
		if systemUnit {
			stopper.Connect = systemd.ConnectSystemSystemd
		}
		ts = append(ts, stopper)
	}

	kind := process.Kind(killer)
	if kind == "" {
		kind = process.DefaultKind()
	}
	t, err := process.New(kind)
	if err != nil {
		return nil, err
	}
	if p, ok := t.(*process.Pkill); ok && pkillPath != "" {
		p.Path = pkillPath
	}
	return append(ts, t), nil
}

// terminatorName labels a terminator for --dry-run output.
func terminatorName(t process.Terminator) string {
	switch t := t.(type) {
	case *process.ProcScanner:
		return "procfs"
	case *process.Pkill:
		if t.Path != "" {
			return "pkill (" + t.Path + ")"
		}
		return "pkill"
	case *systemd.UnitStopper:
		return "unit " + t.Unit.String()
	default:
		return fmt.Sprintf("%T", t)
	}
}

// parseSignal accepts "TERM", "SIGTERM" or a number.
func parseSignal(s string) (syscall.Signal, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return syscall.SIGTERM, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("invalid signal %q", s)
		}
		return syscall.Signal(n), nil
	}
	if !strings.HasPrefix(s, "SIG") {
		s = "SIG" + s
	}
	if sig := unix.SignalNum(s); sig != 0 {
		return sig, nil
	}
	return 0, fmt.Errorf("unknown signal %q", s)
}

// signalName renders sig without its SIG prefix.
func signalName(sig syscall.Signal) string {
	if name := unix.SignalName(sig); name != "" {
		return strings.TrimPrefix(name, "SIG")
	}
	return strconv.Itoa(int(sig))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// maxSettleSeconds is the longest bare-seconds value a time.Duration can hold.
const maxSettleSeconds = float64(math.MaxInt64) / float64(time.Second)

// envDuration reads a duration such as "1s" or "500ms". A bare number is seconds.
func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(secs) || math.Abs(secs) > maxSettleSeconds {
			return 0, fmt.Errorf("%s: %q seconds is out of range", key, v)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
