package cmd

import (
	"errors"
	"fmt"

	"rav/internal/logger"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// A nil Err means the failure has already been reported.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// reportError prints err, followed by its full chain when --traceback is set.
func reportError(err error) {
	logger.Error("\n✗ Error: %v\n", err)
	if !settings.Traceback {
		if settings.Verbose {
			logger.Muted("Tip: Use --traceback to see the full error chain\n")
		}
		return
	}

	logger.Muted("\nTraceback (outermost first):\n")
	for depth, e := 0, err; e != nil; depth, e = depth+1, errors.Unwrap(e) {
		logger.Muted("  %d. %T: %v\n", depth, e, e)
	}
}
