package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// DefaultPkillPath is where procps installs pkill on Debian-like systems.
const DefaultPkillPath = "/usr/bin/pkill"

// Pkill delegates matching and signalling to the external pkill tool.
// pattern is passed to `pkill -f`, so it is matched as an extended regular
// expression against the full command line.
type Pkill struct {
	// Path overrides DefaultPkillPath. A bare name is looked up in $PATH.
	Path string
}

var _ Terminator = (*Pkill)(nil)

// pkill exit statuses.
const (
	pkillNoMatch = 1
	pkillSyntax  = 2
	pkillFatal   = 3
)

// Terminate runs pkill. Exit status 1 means nothing matched and is not an error.
func (p *Pkill) Terminate(ctx context.Context, pattern string, sig syscall.Signal) (Result, error) {
	res := Result{Source: "pkill"}
	if pattern == "" {
		return res, fmt.Errorf("empty pattern")
	}

	path := p.Path
	if path == "" {
		path = DefaultPkillPath
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrToolUnavailable, path, err)
	}

	cmd := exec.CommandContext(ctx, bin, "-"+signalArg(sig), "-f", "--", pattern)
	out, err := cmd.CombinedOutput()
	if err == nil {
		res.Matched = true
		return res, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return res, fmt.Errorf("running %s: %w", bin, err)
	}
	switch exitErr.ExitCode() {
	case pkillNoMatch:
		return res, nil
	case pkillSyntax, pkillFatal:
		return res, fmt.Errorf("%s failed (exit %d): %s", bin, exitErr.ExitCode(), strings.TrimSpace(string(out)))
	default:
		return res, fmt.Errorf("%s: %w", bin, err)
	}
}
