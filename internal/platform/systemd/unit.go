// Package systemd stops a systemd unit that owns a stale instance.
//
// A slideshow started as a service with Restart= would be respawned by systemd
// right after a pattern kill, so when a unit name is configured it is stopped
// through the service manager first.
package systemd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/coreos/go-systemd/v22/dbus"
	godbus "github.com/godbus/dbus/v5"

	"github.com/mbrock/relaunch/internal/process"
)

// ErrNoSuchUnit is returned by StopUnit when systemd does not know the unit.
var ErrNoSuchUnit = errors.New("no such unit")

const noSuchUnitError = "org.freedesktop.systemd1.NoSuchUnit"

// UnitName is a systemd unit name such as "slideshow.service".
type UnitName string

// ParseUnitName normalizes a user-supplied name, defaulting to a service unit.
func ParseUnitName(s string) (UnitName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty unit name")
	}
	if strings.ContainsAny(s, "/ ") {
		return "", fmt.Errorf("invalid unit name %q", s)
	}
	if !strings.Contains(s, ".") {
		s += ".service"
	}
	return UnitName(s), nil
}

func (u UnitName) String() string {
	return string(u)
}

// Systemd is the subset of the service manager relaunch talks to.
type Systemd interface {
	// StopUnit gracefully stops a unit, blocking until the job completes.
	StopUnit(ctx context.Context, name UnitName) error

	// Close releases the D-Bus connection.
	Close() error
}

// systemdConn implements Systemd using go-systemd/dbus.
type systemdConn struct {
	conn *dbus.Conn
}

// ConnectUserSystemd connects to the user's systemd instance.
func ConnectUserSystemd(ctx context.Context) (Systemd, error) {
	conn, err := dbus.NewUserConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to user systemd: %w", err)
	}
	return &systemdConn{conn: conn}, nil
}

// ConnectSystemSystemd connects to the system-wide systemd instance.
func ConnectSystemSystemd(ctx context.Context) (Systemd, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to system systemd: %w", err)
	}
	return &systemdConn{conn: conn}, nil
}

func (s *systemdConn) Close() error {
	s.conn.Close()
	return nil
}

func (s *systemdConn) StopUnit(ctx context.Context, name UnitName) error {
	resultChan := make(chan string, 1)
	_, err := s.conn.StopUnitContext(ctx, name.String(), "replace", resultChan)
	if err != nil {
		if isNoSuchUnit(err) {
			return fmt.Errorf("%w: %s", ErrNoSuchUnit, name)
		}
		return fmt.Errorf("stopping unit: %w", err)
	}

	select {
	case result := <-resultChan:
		if result != "done" {
			return fmt.Errorf("stop job failed: %s", result)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isNoSuchUnit(err error) bool {
	var dbusErr godbus.Error
	return errors.As(err, &dbusErr) && dbusErr.Name == noSuchUnitError
}

// UnitStopper is a process.Terminator that stops a unit instead of matching
// command lines. The pattern and signal are ignored; systemd applies the
// unit's own KillSignal.
type UnitStopper struct {
	Unit UnitName
	// Connect opens the service manager connection. Nil means the user instance.
	Connect func(ctx context.Context) (Systemd, error)
}

var _ process.Terminator = (*UnitStopper)(nil)

// Terminate stops the unit. An unknown unit counts as nothing to stop.
func (u *UnitStopper) Terminate(ctx context.Context, _ string, _ syscall.Signal) (process.Result, error) {
	res := process.Result{Source: "unit " + u.Unit.String()}

	connect := u.Connect
	if connect == nil {
		connect = ConnectUserSystemd
	}
	sd, err := connect(ctx)
	if err != nil {
		return res, err
	}
	defer sd.Close()

	if err := sd.StopUnit(ctx, u.Unit); err != nil {
		if errors.Is(err, ErrNoSuchUnit) {
			return res, nil
		}
		return res, err
	}
	res.Matched = true
	return res, nil
}
