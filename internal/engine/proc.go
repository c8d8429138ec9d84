package engine

import (
	"os"
	"syscall"
)

// Alive reports whether a process with the given PID exists, by
// sending the null signal.
func Alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// Terminate asks a process to shut down gracefully.
func Terminate(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.SIGTERM) == nil
}
