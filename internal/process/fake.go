package process

import (
	"context"
	"sync"
	"syscall"
)

// FakeTerminator is a test Terminator that records calls and returns a
// canned result.
type FakeTerminator struct {
	mu     sync.Mutex
	calls  []FakeCall
	result Result
	err    error

	// OnTerminate, if set, runs inside Terminate before it returns.
	OnTerminate func(pattern string)
}

// FakeCall records one Terminate invocation.
type FakeCall struct {
	Pattern string
	Signal  syscall.Signal
}

var _ Terminator = (*FakeTerminator)(nil)

// NewFakeTerminator returns a FakeTerminator that reports res and err.
func NewFakeTerminator(res Result, err error) *FakeTerminator {
	return &FakeTerminator{result: res, err: err}
}

func (f *FakeTerminator) Terminate(ctx context.Context, pattern string, sig syscall.Signal) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Pattern: pattern, Signal: sig})
	hook := f.OnTerminate
	f.mu.Unlock()

	if hook != nil {
		hook(pattern)
	}
	return f.result, f.err
}

// Calls returns a copy of the recorded invocations.
func (f *FakeTerminator) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}
