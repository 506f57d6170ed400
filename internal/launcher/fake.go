package launcher

import "sync"

// FakeExecutor records Exec calls instead of replacing the process.
// Exec returns Err, so a nil Err makes Run return nil.
type FakeExecutor struct {
	mu    sync.Mutex
	calls []ExecCall
	Err   error

	// OnExec, if set, runs inside Exec.
	OnExec func(argv []string)
}

// ExecCall records one Exec invocation.
type ExecCall struct {
	Argv0 string
	Argv  []string
	Env   []string
}

var _ Executor = (*FakeExecutor)(nil)

func (f *FakeExecutor) Exec(argv0 string, argv []string, env []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, ExecCall{
		Argv0: argv0,
		Argv:  append([]string(nil), argv...),
		Env:   append([]string(nil), env...),
	})
	hook := f.OnExec
	f.mu.Unlock()

	if hook != nil {
		hook(argv)
	}
	return f.Err
}

// Calls returns a copy of the recorded invocations.
func (f *FakeExecutor) Calls() []ExecCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExecCall(nil), f.calls...)
}
