package invoker

import (
	"errors"
	"fmt"
)

// ErrExecutionFailed is matched by *ExecutionError
var ErrExecutionFailed = errors.New("plugin execution failed")

// ExecutionError reports a plugin process that could not be started.
// A plugin that ran and exited non-zero is not an ExecutionError.
type ExecutionError struct {
	Plugin  string
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("can not run %s: %v", e.Plugin, e.Err)
	}
	return fmt.Sprintf("can not run %s (%s): %v", e.Plugin, e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecutionFailed
}
