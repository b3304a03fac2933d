// Package runner executes one materialized command line through a shell and
// maps the result to an exit outcome.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExitInterrupted is the conventional exit status after SIGINT (128 + 2).
const ExitInterrupted = 130

// Outcome is the result of one execution.
type Outcome struct {
	// ExitCode is 0 on success, ExitInterrupted after an interrupt, the
	// child's own status on failure, or 1 when no status is available.
	ExitCode int
	// Interrupted is set when the user interrupted the run.
	Interrupted bool
	// Err carries failures to start or interpret the command; a plain
	// non-zero exit leaves it nil.
	Err error
}

// Success reports whether the command completed with status 0.
func (o Outcome) Success() bool {
	return o.ExitCode == 0 && !o.Interrupted && o.Err == nil
}

// Error describes a failed outcome, for wrapping into CLI errors.
func (o Outcome) Error() string {
	switch {
	case o.Interrupted:
		return "stopped by user (interrupt)"
	case o.Err != nil:
		return o.Err.Error()
	default:
		return fmt.Sprintf("command failed with exit code %d", o.ExitCode)
	}
}

// Unwrap exposes the underlying error, if any.
func (o Outcome) Unwrap() error {
	return o.Err
}

// Runner executes a full command line as a single shell command.
type Runner interface {
	Execute(ctx context.Context, line string) Outcome
}

// IO holds the standard streams handed to the shell.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdIO returns the process's own standard streams.
func StdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Options configure New.
type Options struct {
	// Shell is "" for the host default shell, "virtual" for the built-in
	// interpreter, or a shell executable name or path.
	Shell string
	// Dir is the directory the command starts in; "" keeps the current one.
	Dir string
	// Env replaces the environment when non-nil.
	Env []string
	IO  IO
}

// New returns the Runner selected by opts.Shell.
func New(opts Options) Runner {
	if opts.Shell == "virtual" {
		return &Virtual{Dir: opts.Dir, Env: opts.Env, IO: opts.IO}
	}
	return &Shell{Path: opts.Shell, Dir: opts.Dir, Env: opts.Env, IO: opts.IO}
}

// interruptOutcome is the outcome of any run the user stopped.
func interruptOutcome() Outcome {
	return Outcome{ExitCode: ExitInterrupted, Interrupted: true}
}
