package launcher

import "errors"

var (
	ErrProjectDir          = errors.New("cannot enter project directory")
	ErrInterpreterNotFound = errors.New("interpreter not found")
	ErrInterrupted         = errors.New("launch interrupted")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// Exit statuses, following the shell's conventions for exec failures.
const (
	ExitOK          = 0
	ExitProjectDir  = 1
	ExitUsage       = 2
	ExitExecFailed  = 126
	ExitNotFound    = 127
	ExitInterrupted = 130
)

// ExitCode maps an error returned by Run to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidConfig):
		return ExitUsage
	case errors.Is(err, ErrProjectDir):
		return ExitProjectDir
	case errors.Is(err, ErrInterpreterNotFound):
		return ExitNotFound
	case errors.Is(err, ErrInterrupted):
		return ExitInterrupted
	default:
		return ExitExecFailed
	}
}
