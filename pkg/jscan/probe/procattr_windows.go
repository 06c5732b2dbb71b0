//go:build windows

package probe

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// setProcAttr suppresses the console window a spawned binary would
// otherwise flash on screen for every probe.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

// kill terminates the probe process.
func kill(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
