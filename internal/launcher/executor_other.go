//go:build !unix

package launcher

import (
	"fmt"
	"runtime"
)

// SysExecutor fails on platforms without execve(2).
type SysExecutor struct{}

var _ Executor = SysExecutor{}

func (SysExecutor) Exec(argv0 string, argv []string, env []string) error {
	return fmt.Errorf("exec %s: replacing the process is not supported on %s", argv0, runtime.GOOS)
}
