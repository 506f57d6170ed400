package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"syscall"
	"time"

	"github.com/mbrock/relaunch/internal/dirs"
	"github.com/mbrock/relaunch/internal/process"
)

// Defaults for the slideshow viewer.
const (
	DefaultPattern     = "slideshow.py"
	DefaultInterpreter = "/usr/bin/python3"
	DefaultProgram     = "slideshow.py"
	DefaultSettleDelay = time.Second
)

// Config describes one launch: where to run, what to kill and what to exec.
type Config struct {
	// ProjectDir is entered before anything else. Failure to enter it is fatal.
	ProjectDir string

	// Pattern is matched against the command lines of running processes.
	Pattern string

	// Signal is sent to stale instances. Zero means SIGTERM.
	Signal syscall.Signal

	// SettleDelay is how long to wait between termination and exec.
	SettleDelay time.Duration

	// Interpreter is the executable that replaces the launcher.
	Interpreter string

	// Program is passed to Interpreter, relative to ProjectDir.
	Program string

	// Terminators run in order during the termination step. Nil means a
	// single process.ProcScanner.
	Terminators []process.Terminator

	// Executor replaces the current process. Nil means SysExecutor.
	Executor Executor

	// Logger receives progress. Nil means slog.Default().
	Logger *slog.Logger

	// Chdir, Sleep and Environ are seams for tests.
	Chdir   func(dir string) error
	Sleep   func(ctx context.Context, d time.Duration) error
	Environ func() []string
}

// DefaultConfig returns the slideshow defaults with the project directory
// resolved from the environment.
func DefaultConfig() Config {
	return Config{
		ProjectDir:  dirs.ProjectDir(),
		Pattern:     DefaultPattern,
		Signal:      syscall.SIGTERM,
		SettleDelay: DefaultSettleDelay,
		Interpreter: DefaultInterpreter,
		Program:     DefaultProgram,
	}
}

// Validate reports configuration that can never launch anything.
// The error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	var problem string
	switch {
	case c.ProjectDir == "":
		problem = "project directory is empty"
	case c.Pattern == "":
		problem = "match pattern is empty"
	case c.Interpreter == "":
		problem = "interpreter is empty"
	case c.SettleDelay < 0:
		problem = fmt.Sprintf("negative settle delay %s", c.SettleDelay)
	default:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, problem)
}

// Argv builds the replacement command line. args are appended unchanged.
func (c Config) Argv(args []string) []string {
	argv := make([]string, 0, 2+len(args))
	argv = append(argv, c.Interpreter)
	if c.Program != "" {
		argv = append(argv, c.Program)
	}
	return append(argv, args...)
}
