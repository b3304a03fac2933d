package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"rav/internal/logger"
)

// waitDelay bounds how long Wait keeps copying output after the shell exits
// while orphaned grandchildren still hold the pipes.
const waitDelay = time.Second

// Shell runs command lines through a host shell ("sh -c" by default).
type Shell struct {
	// Path overrides the shell executable.
	Path string
	Dir  string
	Env  []string
	IO   IO
}

// shellCommand returns the executable and the arguments preceding the line.
func (s *Shell) shellCommand() (string, []string) {
	shell := s.Path
	if shell == "" {
		if runtime.GOOS == "windows" {
			shell = "cmd"
		} else {
			shell = "/bin/sh"
		}
	}

	base := strings.ToLower(strings.TrimSuffix(filepath.Base(shell), filepath.Ext(shell)))
	switch base {
	case "cmd":
		return shell, []string{"/C"}
	case "powershell", "pwsh":
		return shell, []string{"-NoProfile", "-Command"}
	default:
		return shell, []string{"-c"}
	}
}

// Execute runs line and waits for it. An interrupt received while the shell
// runs is forwarded to it and turns the outcome into ExitInterrupted; so does
// cancellation of ctx. SIGTERM is forwarded too, and the outcome carries the
// shell's resulting status.
func (s *Shell) Execute(ctx context.Context, line string) Outcome {
	shell, args := s.shellCommand()
	cmd := exec.Command(shell, append(args, line)...)
	cmd.Dir = s.Dir
	if s.Env != nil {
		cmd.Env = s.Env
	}
	cmd.Stdin = s.IO.Stdin
	cmd.Stdout = s.IO.Stdout
	cmd.Stderr = s.IO.Stderr
	cmd.WaitDelay = waitDelay

	logger.Debug("[DEBUG] Running command: %s %s\n", shell, strings.Join(append(args, line), " "))

	// Catch interrupts for the lifetime of the child so this process survives
	// them and can report the conventional status.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if err := cmd.Start(); err != nil {
		return Outcome{ExitCode: 1, Err: fmt.Errorf("failed to start %s: %w", shell, err)}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	interrupted := false
	ctxDone := ctx.Done()
	for {
		select {
		case sig := <-sigs:
			// Only SIGINT counts as the user stopping the run; SIGTERM is
			// reported through the shell's own status.
			if sig == os.Interrupt {
				interrupted = true
			}
			logger.Debug("[DEBUG] Received %v, forwarding to shell\n", sig)
			forward(cmd.Process, sig)
		case <-ctxDone:
			interrupted = true
			ctxDone = nil
			forward(cmd.Process, os.Interrupt)
		case err := <-done:
			if interrupted {
				return interruptOutcome()
			}
			return exitOutcome(err)
		}
	}
}

// forward delivers sig to the shell, killing it where signals cannot be sent.
func forward(p *os.Process, sig os.Signal) {
	if err := p.Signal(sig); err != nil {
		_ = p.Kill()
	}
}

// exitOutcome maps the error returned by Wait onto an Outcome.
func exitOutcome(err error) Outcome {
	if err == nil {
		return Outcome{}
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Outcome{ExitCode: 1, Err: fmt.Errorf("failed to execute command: %w", err)}
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		if status.Signal() == syscall.SIGINT {
			return interruptOutcome()
		}
		return Outcome{ExitCode: 128 + int(status.Signal())}
	}

	code := exitErr.ExitCode()
	if code <= 0 {
		code = 1
	}
	return Outcome{ExitCode: code}
}
