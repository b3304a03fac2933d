package logger

import (
	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Define colorized printing functions for different log levels using fatih/color.
// These are package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level.

// Info logs informational messages in green color.
// Green is used for normal progress lines such as the run banner and download header.
var Info = color.New(color.FgGreen).PrintfFunc()

// Success logs completed steps (script finished, file verified, file downloaded)
// in bold green so they stand out from ordinary progress lines.
var Success = color.New(color.FgGreen, color.Bold).PrintfFunc()

// Warn logs warning messages in bright magenta color.
// Skipped files, user interrupts and unknown names are reported through Warn.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
// Red is commonly associated with errors or critical problems to draw immediate attention.
var Error = color.New(color.FgRed).PrintfFunc()

// Muted prints secondary detail (source URLs, staging paths, tips) in faint text.
var Muted = color.New(color.Faint).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It starts out as a no-op so packages can log before Init runs (tests, library use).
var Debug = func(format string, a ...any) {}

// Init initializes the logger package, specifically enabling or disabling debug logging.
// Parameters:
// - enableDebug: boolean flag to turn debug messages on or off.
// When enabled, Debug will print messages in cyan color.
// When disabled, Debug will be a no-op function that silently ignores debug logs.
func Init(enableDebug bool) {
	if enableDebug {
		// Assign Debug to print cyan-colored debug messages.
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		// Assign Debug to a no-op function that ignores all debug logs.
		Debug = func(format string, a ...any) {}
	}
}

// DisableColor turns off ANSI colors for every printer, e.g. for --no-color or
// when output is captured.
func DisableColor() {
	color.NoColor = true
}
