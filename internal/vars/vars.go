// Package vars builds the variable table used by command resolution and
// substitutes ${{ vars.NAME }} tokens in command text.
package vars

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrUndefined is matched (via errors.Is) by every *UndefinedError.
var ErrUndefined = errors.New("undefined variable")

// UndefinedError reports a token whose identifier is missing from the table.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined variable: %s", e.Name)
}

// Is lets errors.Is(err, ErrUndefined) match.
func (e *UndefinedError) Is(target error) bool {
	return target == ErrUndefined
}

// tokenPattern matches ${{ vars.NAME }} with optional whitespace inside the braces.
var tokenPattern = regexp.MustCompile(`\$\{\{\s*vars\.([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// Table maps variable names to their string values.
type Table map[string]string

// Resolve builds a table from environ (KEY=VALUE entries, as returned by
// os.Environ) overlaid with the project's declared variables. Project values
// win on collision.
func Resolve(environ []string, project map[string]string) Table {
	table := make(Table, len(environ)+len(project))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		table[key] = value
	}
	for key, value := range project {
		table[key] = value
	}
	return table
}

// FromEnvironment is Resolve over the current process environment.
func FromEnvironment(project map[string]string) Table {
	return Resolve(os.Environ(), project)
}

// Lookup returns the value for name and whether it is defined.
func (t Table) Lookup(name string) (string, bool) {
	v, ok := t[name]
	return v, ok
}

// Substitute replaces every ${{ vars.NAME }} token in text with the table
// value. It stops at the first token whose name is not defined and returns an
// *UndefinedError naming it; no partial result is returned in that case.
func Substitute(text string, table Table) (string, error) {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		name := text[m[2]:m[3]]
		value, ok := table.Lookup(name)
		if !ok {
			return "", &UndefinedError{Name: name}
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(value)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), nil
}
