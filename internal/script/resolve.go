// Package script resolves a requested script name into the commands,
// working directory and prefix to run, and materializes them into one
// shell-ready string.
package script

import (
	"errors"
	"fmt"
	"strings"

	"rav/internal/config"
)

// ErrNotFound is returned when the requested script name is not defined.
var ErrNotFound = errors.New("script not found")

// Resolution is the result of resolving one script name. An empty
// WorkingDir or Prefix means none.
type Resolution struct {
	Name       string
	Commands   []string
	WorkingDir string
	Prefix     string
	// Group is the group definition name the defaults came from, if any.
	Group string
}

// GroupName returns the text before the first ":" of name, or "" when name
// has no ":".
func GroupName(name string) string {
	group, _, ok := strings.Cut(name, ":")
	if !ok {
		return ""
	}
	return group
}

// LookupGroup finds the group definition for group, trying "group" and then
// "group:". A falsy entry under "group" falls through to "group:"; whatever
// entry is found must be a group definition.
func LookupGroup(scripts *config.Scripts, group string) (string, config.Entry, bool) {
	if group == "" {
		return "", config.Entry{}, false
	}
	key := group
	entry, ok := scripts.Lookup(key)
	if !ok || entry.Empty {
		key = group + ":"
		entry, ok = scripts.Lookup(key)
	}
	if !ok || entry.Empty || !entry.IsGroupDefinition() {
		return "", config.Entry{}, false
	}
	return key, entry, true
}

// Resolve computes the commands, working directory and prefix for name,
// applying group defaults and the entry's own overrides.
func Resolve(scripts *config.Scripts, name string) (Resolution, error) {
	entry, ok := scripts.Lookup(name)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}

	res := Resolution{Name: name}
	if key, group, ok := LookupGroup(scripts, GroupName(name)); ok {
		res.Group = key
		if group.WorkingDir != nil {
			res.WorkingDir = *group.WorkingDir
		}
		if group.Prefix != nil {
			res.Prefix = *group.Prefix
		}
	}

	switch entry.Kind {
	case config.KindPlain:
		res.Commands = []string{entry.Text}
	case config.KindSequence:
		res.Commands = Flatten(entry.Steps)
	case config.KindGroup:
		if entry.Prefix != nil {
			res.Prefix = *entry.Prefix
		}
		if entry.WorkingDir != nil {
			res.WorkingDir = *entry.WorkingDir
		}
		res.Commands = append([]string{}, entry.Cmd...)
	default:
		res.Commands = []string{}
	}
	return res, nil
}

// Flatten returns the commands of a sequence in order.
func Flatten(steps []config.Step) []string {
	commands := []string{}
	for _, st := range steps {
		commands = append(commands, st.Commands...)
	}
	return commands
}

// WithArgs returns a copy of commands with args space-joined onto the last
// command. Earlier commands are untouched; with no commands args are dropped.
func WithArgs(commands []string, args []string) []string {
	out := append([]string{}, commands...)
	if len(args) == 0 || len(out) == 0 {
		return out
	}
	last := len(out) - 1
	out[last] = out[last] + " " + strings.Join(args, " ")
	return out
}
