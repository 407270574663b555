//go:build !windows

package supervise

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup places the child in its own process group so signals
// reach forked descendants too.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(p.Pid)
	if err != nil {
		// Group already gone; fall back to the direct child.
		return p.Signal(sig)
	}
	return syscall.Kill(-pgid, sig)
}

// terminateGroup sends SIGTERM to the child's process group.
func terminateGroup(p *os.Process) error {
	return signalGroup(p, syscall.SIGTERM)
}

// killGroup sends SIGKILL to the child's process group.
func killGroup(p *os.Process) error {
	return signalGroup(p, syscall.SIGKILL)
}
