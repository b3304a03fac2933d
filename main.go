package main

import (
	"rav/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// rav is a script runner driven by a YAML project file (rav.yaml):
//   - Named scripts are plain strings, lists of commands, or mappings with cmd,
//     prefix and working_dir; "group:member" names inherit the group's defaults
//   - ${{ vars.NAME }} tokens are replaced from the project's vars section and
//     the process environment before anything runs
//   - A script runs as one shell command; its exit code becomes rav's exit code,
//     and Ctrl+C exits with 130
//   - Download specs fetch files over HTTP, verifying SRI integrity hashes in a
//     staging directory before moving files into place
//
// Exit codes are decided in cmd.Execute, the only place that calls os.Exit.
func main() {
	cmd.Execute()
}
