//go:build !unix

package process

import (
	"fmt"
	"runtime"
	"strconv"
	"syscall"
)

func killPID(pid int, sig syscall.Signal) error {
	return fmt.Errorf("signalling pid %d: unsupported on %s", pid, runtime.GOOS)
}

func signalArg(sig syscall.Signal) string {
	return strconv.Itoa(int(sig))
}
