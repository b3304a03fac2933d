package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"rav/internal/config"
	"rav/internal/logger"
)

// v holds the runtime settings sources: bound flags, RAV_* environment
// variables and defaults.
var v = config.NewViper()

// settings is populated from v before any subcommand runs.
var settings = config.DefaultSettings()

// noColor disables ANSI colors in every printer.
var noColor bool

// rootCmd is the base command for the CLI tool `rav`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:   "rav",
	Short: "Run named shell scripts and downloads defined in rav.yaml",
	Long: `rav reads a project file (rav.yaml by default) and runs its named scripts
through the shell, or fetches its download specs with integrity verification.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRunE is a hook that runs before any subcommand.
	// Here, we load the settings and initialize the logger based on the debug flag.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.LoadSettings(v)
		if err != nil {
			return err
		}
		settings = s
		if noColor {
			logger.DisableColor()
		}
		logger.Init(settings.Debug) // Set up logging (verbose if --debug is true)
		logger.Debug("[DEBUG] Settings: %+v\n", settings)
		return nil
	},
}

// Execute runs the CLI with the process arguments and exits with the
// resulting status. It's the entry point for the CLI when invoked by the user.
func Execute() {
	if code := execute(os.Args[1:]); code != 0 {
		os.Exit(code)
	}
}

// execute runs the root command with args and maps its error to an exit code.
func execute(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			reportError(exitErr.Err)
		}
		return exitErr.Code
	}

	reportError(err)
	return 1
}

// init registers the global flags, binds them to viper and adds subcommands.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("file", "f", config.DefaultProjectFile, "Path to the rav project file")
	flags.StringP("join", "j", config.DefaultJoin, "Separator used to join the commands of a script")
	flags.BoolP("verbose", "v", false, "Print the resolved command and a status line")
	flags.Bool("traceback", false, "Print the full error chain on failure")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("shell", "", `Shell used to run scripts ("virtual" for the built-in interpreter)`)
	flags.String("staging-dir", config.DefaultStagingDir(), "Directory downloads are verified in before being moved")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")

	for _, name := range []string{"file", "join", "verbose", "traceback", "debug", "shell"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	_ = v.BindPFlag("staging_dir", flags.Lookup("staging-dir"))

	rootCmd.AddCommand(runCmd, listCmd, downloadCmd, sampleCmd, versionCmd)
}
