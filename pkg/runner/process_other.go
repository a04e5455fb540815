//go:build !unix

package runner

import (
	"os"
	"os/exec"
)

// setProcessGroup is a no-op where process groups are unavailable.
func setProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup signals just the child on platforms without process
// group support.
func killProcessGroup(cmd *exec.Cmd, sig os.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Signal(sig)
}

// forceKillProcessGroup kills the child directly.
func forceKillProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// exitStatus extracts the exit code from an exec.ExitError via
// ProcessState, which is portable.
func exitStatus(exitErr *exec.ExitError) (int, bool) {
	if exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode(), true
	}
	return 0, false
}

// interruptSignals lists the signals forwarded to the child.
func interruptSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
