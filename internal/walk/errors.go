package walk

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDirectory is returned when the scan root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNegativeDepth is returned by NewWalker for a negative MaxDepth.
	ErrNegativeDepth = errors.New("walk: max depth must not be negative")
)

// TraversalError reports a filesystem failure that aborted a traversal,
// such as a missing or unreadable root.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traversal of %q failed: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}
