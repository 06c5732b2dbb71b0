//go:build !windows

package probe

import (
	"os/exec"
	"syscall"
)

// setProcAttr places the probe in its own process group so a deadline kill
// reaches any children the launcher spawned, not just the launcher itself.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// kill terminates the probe's whole process group. A surviving child would
// keep the output pipes open and hold up collection past the deadline.
func kill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}
