//go:build windows

package supervise

import (
	"os"
	"os/exec"
)

// setProcessGroup is a no-op on Windows; termination falls back to killing
// the direct child only.
func setProcessGroup(cmd *exec.Cmd) {}

func terminateGroup(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}

func killGroup(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}
