package script

import (
	"fmt"
	"strings"

	"rav/internal/vars"
)

// Materialize turns a resolution into one shell string: variables are
// substituted in every command, the prefix and the working directory, the
// prefix is prepended to each command, the commands are joined with join and
// "cd <working_dir> && " is prepended when a working directory is set.
func Materialize(res Resolution, table vars.Table, join string) (string, error) {
	var prefix string
	if res.Prefix != "" && len(res.Commands) > 0 {
		p, err := vars.Substitute(res.Prefix, table)
		if err != nil {
			return "", fmt.Errorf("prefix of '%s': %w", res.Name, err)
		}
		prefix = p
	}

	processed := make([]string, 0, len(res.Commands))
	for _, cmd := range res.Commands {
		c, err := vars.Substitute(cmd, table)
		if err != nil {
			return "", fmt.Errorf("script '%s': %w", res.Name, err)
		}
		if prefix != "" {
			c = prefix + " " + c
		}
		processed = append(processed, c)
	}

	joined := strings.Join(processed, join)

	if res.WorkingDir != "" {
		dir, err := vars.Substitute(res.WorkingDir, table)
		if err != nil {
			return "", fmt.Errorf("working_dir of '%s': %w", res.Name, err)
		}
		joined = "cd " + dir + " && " + joined
	}
	return joined, nil
}

// CommandLine appends args to the last command of res and materializes it.
func CommandLine(res Resolution, args []string, table vars.Table, join string) (string, error) {
	res.Commands = WithArgs(res.Commands, args)
	return Materialize(res, table, join)
}
