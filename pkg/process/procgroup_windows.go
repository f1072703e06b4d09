//go:build windows
// +build windows

package process

import (
	"os/exec"
)

// killWholeGroup keeps the default cancellation on Windows, which kills the
// process itself
func killWholeGroup(cmd *exec.Cmd) {
}
