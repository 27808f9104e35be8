//go:build linux

package invoker

import (
	"os/exec"
	"syscall"
)

// setProcAttr makes the kernel signal the child when plughub dies
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}
}
