//go:build !windows
// +build !windows

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// killWholeGroup starts the command in its own process group and makes
// context cancellation kill the group, so programs spawned by the command
// (a shell running the compiler, a linker driver) die with it
func killWholeGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
}
