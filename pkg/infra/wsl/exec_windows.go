//go:build windows

package wsl

import (
	"os/exec"
	"syscall"
)

// hideWindow keeps the child from opening a visible console window.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
