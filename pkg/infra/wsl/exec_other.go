//go:build !windows

package wsl

import "os/exec"

// hideWindow is a no-op outside Windows; there is no console window to
// suppress. Kept so tests and development builds compile anywhere.
func hideWindow(cmd *exec.Cmd) {}
