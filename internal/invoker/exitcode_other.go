//go:build !unix

package invoker

import "os"

func exitCode(state *os.ProcessState) int {
	return state.ExitCode()
}
