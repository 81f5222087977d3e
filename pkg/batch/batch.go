// Package batch runs the sequential request loops: reserving document
// numbers and creating numbered subfolders. Loops are strictly sequential
// and stop at the first failure; work already done on the server is not
// undone.
package batch

import (
	"fmt"
)

// IterationError reports the iteration that stopped a loop.
type IterationError struct {
	Op        string // Loop name (e.g., "reserve-docnums", "create-folders")
	Index     int    // Iteration value that failed (offset for folders)
	Completed int    // Iterations that succeeded before the failure
	Err       error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("%s: iteration %d failed after %d completed: %v",
		e.Op, e.Index, e.Completed, e.Err)
}

func (e *IterationError) Unwrap() error {
	return e.Err
}

// BeforeProgress reports whether the loop failed on its first iteration,
// i.e. nothing was changed on the server.
func (e *IterationError) BeforeProgress() bool {
	return e.Completed == 0
}
