//go:build unix

package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// SysExecutor is the default Executor, backed by execve(2).
type SysExecutor struct{}

var _ Executor = SysExecutor{}

// Exec resolves argv0 through $PATH when it has no slash, then calls execve.
func (SysExecutor) Exec(argv0 string, argv []string, env []string) error {
	path := argv0
	if !strings.Contains(path, "/") {
		p, err := exec.LookPath(path)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInterpreterNotFound, path)
		}
		path = p
	}

	err := unix.Exec(path, argv, env)
	if errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("%w: %s", ErrInterpreterNotFound, path)
	}
	return fmt.Errorf("exec %s: %w", path, err)
}
