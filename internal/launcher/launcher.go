// Package launcher restarts the target program in place.
//
// A launch runs four steps in order: enter the project directory, terminate
// stale instances, wait for the settle delay, then exec the interpreter. Only
// the first step can fail the launch before exec; termination is best effort.
package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/mbrock/relaunch/internal/process"
)

// Executor replaces the current process image.
type Executor interface {
	// Exec never returns on success.
	Exec(argv0 string, argv []string, env []string) error
}

// Launcher performs a single launch.
type Launcher struct {
	cfg         Config
	terminators []process.Terminator
	executor    Executor
	log         *slog.Logger
	chdir       func(string) error
	sleep       func(context.Context, time.Duration) error
	environ     func() []string
}

// Plan is the resolved launch, without side effects.
type Plan struct {
	Dir         string
	Pattern     string
	Signal      syscall.Signal
	SettleDelay time.Duration
	Argv        []string
}

// New creates a Launcher, filling unset dependencies with the real ones.
func New(cfg Config) *Launcher {
	l := &Launcher{
		cfg:         cfg,
		terminators: cfg.Terminators,
		executor:    cfg.Executor,
		log:         cfg.Logger,
		chdir:       cfg.Chdir,
		sleep:       cfg.Sleep,
		environ:     cfg.Environ,
	}
	if l.cfg.Signal == 0 {
		l.cfg.Signal = syscall.SIGTERM
	}
	if l.terminators == nil {
		l.terminators = []process.Terminator{&process.ProcScanner{}}
	}
	if l.executor == nil {
		l.executor = SysExecutor{}
	}
	if l.log == nil {
		l.log = slog.Default()
	}
	if l.chdir == nil {
		l.chdir = os.Chdir
	}
	if l.sleep == nil {
		l.sleep = sleepContext
	}
	if l.environ == nil {
		l.environ = os.Environ
	}
	return l
}

// Plan returns what Run would do for args.
func (l *Launcher) Plan(args []string) Plan {
	return Plan{
		Dir:         l.cfg.ProjectDir,
		Pattern:     l.cfg.Pattern,
		Signal:      l.cfg.Signal,
		SettleDelay: l.cfg.SettleDelay,
		Argv:        l.cfg.Argv(args),
	}
}

// Run launches the target program with args forwarded verbatim.
// On success it does not return.
func (l *Launcher) Run(ctx context.Context, args []string) error {
	if err := l.cfg.Validate(); err != nil {
		return err
	}
	plan := l.Plan(args)

	if err := l.chdir(plan.Dir); err != nil {
		return fmt.Errorf("%w %s: %w", ErrProjectDir, plan.Dir, unwrapPath(err))
	}
	l.log.Debug("entered project directory", "dir", plan.Dir)

	l.terminate(ctx, plan)

	l.log.Debug("settling", "delay", plan.SettleDelay)
	if err := l.sleep(ctx, plan.SettleDelay); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	l.log.Info("launching", "argv", plan.Argv, "dir", plan.Dir)
	return l.executor.Exec(plan.Argv[0], plan.Argv, l.environ())
}

// terminate runs every terminator and swallows their failures.
func (l *Launcher) terminate(ctx context.Context, plan Plan) {
	for _, t := range l.terminators {
		res, err := t.Terminate(ctx, plan.Pattern, plan.Signal)
		if err != nil {
			l.log.Debug("termination failed", "source", res.Source, "error", err)
		}
		if res.Matched {
			l.log.Info("terminated stale instance", "source", res.Source, "pids", res.PIDs)
		} else if err == nil {
			l.log.Debug("no stale instance", "source", res.Source, "pattern", plan.Pattern)
		}
	}
}

// unwrapPath strips the *os.PathError wrapper so the path is not printed twice.
func unwrapPath(err error) error {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
