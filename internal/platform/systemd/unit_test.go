package systemd

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	godbus "github.com/godbus/dbus/v5"
)

// fakeSystemd records StopUnit calls and returns a canned error.
type fakeSystemd struct {
	stopped []UnitName
	err     error
	closed  bool
}

func (f *fakeSystemd) StopUnit(ctx context.Context, name UnitName) error {
	f.stopped = append(f.stopped, name)
	return f.err
}

func (f *fakeSystemd) Close() error {
	f.closed = true
	return nil
}

func connectTo(sd *fakeSystemd) func(context.Context) (Systemd, error) {
	return func(context.Context) (Systemd, error) { return sd, nil }
}

func TestUnitStopper_Stops(t *testing.T) {
	sd := &fakeSystemd{}
	u := &UnitStopper{Unit: "slideshow.service", Connect: connectTo(sd)}

	res, err := u.Terminate(context.Background(), "slideshow.py", syscall.SIGTERM)
	if err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if !res.Matched {
		t.Errorf("expected Matched, got %+v", res)
	}
	if len(sd.stopped) != 1 || sd.stopped[0] != "slideshow.service" {
		t.Errorf("stopped = %v", sd.stopped)
	}
	if !sd.closed {
		t.Error("connection not closed")
	}
}

func TestUnitStopper_UnknownUnitIsNoop(t *testing.T) {
	sd := &fakeSystemd{err: fmt.Errorf("%w: slideshow.service", ErrNoSuchUnit)}
	u := &UnitStopper{Unit: "slideshow.service", Connect: connectTo(sd)}

	res, err := u.Terminate(context.Background(), "", syscall.SIGTERM)
	if err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if res.Matched {
		t.Errorf("expected no match, got %+v", res)
	}
}

func TestUnitStopper_ConnectFailure(t *testing.T) {
	want := errors.New("no session bus")
	u := &UnitStopper{
		Unit:    "slideshow.service",
		Connect: func(context.Context) (Systemd, error) { return nil, want },
	}

	if _, err := u.Terminate(context.Background(), "", syscall.SIGTERM); !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}

func TestIsNoSuchUnit(t *testing.T) {
	noSuch := godbus.Error{Name: noSuchUnitError, Body: []any{"Unit slideshow.service not loaded."}}
	other := godbus.Error{Name: "org.freedesktop.DBus.Error.AccessDenied"}

	if !isNoSuchUnit(fmt.Errorf("wrapped: %w", noSuch)) {
		t.Error("expected NoSuchUnit to be recognized through wrapping")
	}
	if isNoSuchUnit(other) {
		t.Error("AccessDenied classified as NoSuchUnit")
	}
	if isNoSuchUnit(errors.New("plain")) {
		t.Error("plain error classified as NoSuchUnit")
	}
}

func TestParseUnitName(t *testing.T) {
	tests := []struct {
		in      string
		want    UnitName
		wantErr bool
	}{
		{"slideshow", "slideshow.service", false},
		{"slideshow.service", "slideshow.service", false},
		{" kiosk.scope ", "kiosk.scope", false},
		{"", "", true},
		{"a/b", "", true},
	}
	for _, tt := range tests {
		got, err := ParseUnitName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnitName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseUnitName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
