//go:build unix

// relaunch - Restart the slideshow viewer in place
//
// Usage:
//
//	relaunch                 Kill any running slideshow and start a fresh one
//	relaunch <guest>         Same, passing the guest list name through
//	relaunch -n [guest]      Print what would happen and exit
//
// The command only builds on unix: it ends by replacing itself with execve.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mbrock/relaunch/internal/dirs"
	"github.com/mbrock/relaunch/internal/launcher"
	"github.com/mbrock/relaunch/internal/logging"
	flag "github.com/spf13/pflag"
)

// Global flags
var (
	dirFlag         string
	patternFlag     string
	interpreterFlag string
	programFlag     string
	settleFlag      time.Duration
	signalFlag      string
	killerFlag      string
	pkillPathFlag   string
	unitFlag        string
	systemUnitFlag  bool
	logFlag         string
	verboseFlag     bool
	dryRunFlag      bool
)

func main() {
	settleDefault, err := envDuration("RELAUNCH_SETTLE", launcher.DefaultSettleDelay)
	if err != nil {
		usageError("%v", err)
	}

	flag.StringVarP(&dirFlag, "dir", "C", dirs.ProjectDir(), "Project directory to run from (overrides RELAUNCH_PROJECT_DIR)")
	flag.StringVar(&patternFlag, "pattern", envOr("RELAUNCH_PATTERN", launcher.DefaultPattern), "Kill processes whose command line contains this")
	flag.StringVar(&interpreterFlag, "interpreter", envOr("RELAUNCH_INTERPRETER", launcher.DefaultInterpreter), "Interpreter that replaces the launcher")
	flag.StringVar(&programFlag, "program", envOr("RELAUNCH_PROGRAM", launcher.DefaultProgram), "Program passed to the interpreter")
	flag.DurationVar(&settleFlag, "settle", settleDefault, "Delay between killing and starting (overrides RELAUNCH_SETTLE)")
	flag.StringVar(&signalFlag, "signal", "TERM", "Signal sent to stale instances")
	flag.StringVar(&killerFlag, "killer", os.Getenv("RELAUNCH_KILLER"), "How to find stale instances: proc, pkill (default depends on OS)")
	flag.StringVar(&pkillPathFlag, "pkill-path", "", "pkill binary for --killer=pkill (default /usr/bin/pkill)")
	flag.StringVar(&unitFlag, "unit", os.Getenv("RELAUNCH_UNIT"), "Also stop this systemd unit before killing")
	flag.BoolVar(&systemUnitFlag, "system", false, "Look up --unit in the system manager instead of the user manager")
	flag.StringVar(&logFlag, "log", envOr("RELAUNCH_LOG", string(logging.ModeAuto)), "Log destination: auto, stderr, journal")
	flag.BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging")
	flag.BoolVarP(&dryRunFlag, "dry-run", "n", false, "Print the launch plan without killing or starting anything")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `relaunch - Restart the slideshow viewer in place

Usage:
  relaunch [flags] [guest]

Enters the project directory, terminates any running instance, waits for the
settle delay and then replaces itself with the interpreter. Arguments after
the first non-flag are forwarded unchanged.

Flags:
`)
		flag.PrintDefaults()
	}
	// Everything after the guest name belongs to the target program.
	flag.CommandLine.SetInterspersed(false)
	flag.Parse()

	mode, err := logging.ParseMode(logFlag)
	if err != nil {
		usageError("%v", err)
	}
	level := slog.LevelInfo
	if verboseFlag || os.Getenv("RELAUNCH_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logging.Setup(logging.Options{Mode: mode, Level: level})

	cfg, err := buildConfig()
	if err != nil {
		usageError("%v", err)
	}
	l := launcher.New(cfg)
	args := flag.Args()

	if dryRunFlag {
		printPlan(os.Stdout, l.Plan(args), cfg)
		return
	}

	ctx, stop := interruptContext(syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := l.Run(ctx, args); err != nil {
		stop()
		exit(launcher.ExitCode(err), "%v", err)
	}
}

// interruptContext is cancelled by any of sigs that the launcher did not
// inherit as ignored. Subscribing to an ignored signal would make the exec'd
// program lose that disposition, since execve resets caught signals to default.
func interruptContext(sigs ...os.Signal) (context.Context, context.CancelFunc) {
	var watch []os.Signal
	for _, sig := range sigs {
		if !signal.Ignored(sig) {
			watch = append(watch, sig)
		}
	}
	if len(watch) == 0 {
		// NotifyContext with no signals would catch all of them.
		return context.WithCancel(context.Background())
	}
	return signal.NotifyContext(context.Background(), watch...)
}

// printPlan writes the resolved launch in a human-readable form.
func printPlan(w io.Writer, p launcher.Plan, cfg launcher.Config) {
	var sources []string
	for _, t := range cfg.Terminators {
		sources = append(sources, terminatorName(t))
	}
	fmt.Fprintf(w, "%-8s %s\n", "dir", p.Dir)
	fmt.Fprintf(w, "%-8s %s (SIG%s via %s)\n", "kill", p.Pattern, signalName(p.Signal), strings.Join(sources, ", "))
	fmt.Fprintf(w, "%-8s %s\n", "settle", p.SettleDelay)
	fmt.Fprintf(w, "%-8s %s\n", "exec", strings.Join(p.Argv, " "))
}

func usageError(format string, args ...any) {
	exit(launcher.ExitUsage, format, args...)
}

func exit(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(code)
}
