//go:build unix

package process

import (
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

func killPID(pid int, sig syscall.Signal) error {
	return unix.Kill(pid, sig)
}

// signalArg renders sig the way pkill expects it, e.g. "TERM".
func signalArg(sig syscall.Signal) string {
	if name := unix.SignalName(sig); name != "" {
		return strings.TrimPrefix(name, "SIG")
	}
	return strconv.Itoa(int(sig))
}
