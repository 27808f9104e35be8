//go:build unix

package invoker

import (
	"os"
	"syscall"
)

// exitCode follows the shell convention of 128+signal for signalled children
func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
