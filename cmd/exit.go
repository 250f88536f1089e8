package cmd

import (
	"errors"
	"fmt"
)

// Process exit statuses.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInterrupted = 130 // 128 + SIGINT
)

// ErrNoMatches is reported when the filters selected no files.
var ErrNoMatches = errors.New("found no matching files")

// ExitError carries the exit status for a failed run. Its message has
// already been shown to the user by the time it is returned.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
