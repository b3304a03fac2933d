package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"rav/internal/logger"
)

// Virtual runs command lines in the mvdan.cc/sh POSIX interpreter instead of
// a host shell. External programs are still executed from PATH.
type Virtual struct {
	Dir string
	Env []string
	IO  IO
}

// Execute parses and interprets line. Interrupts cancel the interpreter and
// yield ExitInterrupted.
func (v *Virtual) Execute(ctx context.Context, line string) Outcome {
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "rav")
	if err != nil {
		return Outcome{ExitCode: 1, Err: fmt.Errorf("failed to parse command: %w", err)}
	}

	opts := []interp.RunnerOption{
		interp.StdIO(v.IO.Stdin, v.IO.Stdout, v.IO.Stderr),
	}
	if v.Env != nil {
		opts = append(opts, interp.Env(expand.ListEnviron(v.Env...)))
	}
	if v.Dir != "" {
		opts = append(opts, interp.Dir(v.Dir))
	}

	r, err := interp.New(opts...)
	if err != nil {
		return Outcome{ExitCode: 1, Err: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Debug("[DEBUG] Interpreting command: %s\n", line)
	err = r.Run(runCtx, prog)
	if runCtx.Err() != nil {
		return interruptOutcome()
	}
	if err == nil {
		return Outcome{}
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		if status == 0 {
			return Outcome{ExitCode: 1}
		}
		return Outcome{ExitCode: int(status)}
	}
	return Outcome{ExitCode: 1, Err: fmt.Errorf("command execution failed: %w", err)}
}
