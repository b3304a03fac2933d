package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rav/internal/app"
	"rav/internal/logger"
	"rav/internal/runner"
	"rav/internal/script"
)

// runCmd resolves a script and runs it as a single shell command.
// Everything after the script name is handed to the script, flags included.
var runCmd = &cobra.Command{
	Use:     "run <script> [args...]",
	Aliases: []string{"x"},
	Short:   "Run a script from the project file",
	Example: `  rav run echo
  rav x build:lint --fix`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	c, err := app.Load(settings)
	if err != nil {
		return err
	}

	name, extra := args[0], args[1:]
	line, res, err := c.CommandLine(name, extra)
	if errors.Is(err, script.ErrNotFound) {
		printScripts(cmd, c, false)
		logger.Error("\n'%s' is not a valid script. Review the valid ones above or use `rav list`.\n", name)
		return &ExitError{Code: 1}
	}
	if err != nil {
		return err
	}

	if settings.Verbose {
		logger.Info("------------------rav------------------\n")
		logger.Info("Using: %s\n", settings.File)
		if res.WorkingDir != "" {
			logger.Info("Working dir: %s\n", res.WorkingDir)
		}
		if res.Prefix != "" {
			logger.Info("Prefix: %s\n", res.Prefix)
		}
		logger.Info("Running: %s\n\n", line)
	}

	outcome := c.Runner(runner.StdIO()).Execute(cmd.Context(), line)
	switch {
	case outcome.Success():
		if settings.Verbose {
			logger.Success("\n✓ Command completed successfully\n")
		}
		return nil
	case outcome.Interrupted:
		logger.Warn("\n\n⏸  Stopped by user (Ctrl+C)\n")
		return &ExitError{Code: outcome.ExitCode}
	default:
		return &ExitError{Code: outcome.ExitCode, Err: fmt.Errorf("script '%s': %w", name, outcome)}
	}
}

func init() {
	// Flags after the script name belong to the script.
	runCmd.Flags().SetInterspersed(false)
}
