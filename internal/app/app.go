// Package app holds the per-invocation context shared by the CLI commands:
// the loaded project, the variable table built from it and the runtime
// settings. Operations take this value explicitly; there is no global
// project.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"rav/internal/config"
	"rav/internal/downloader"
	"rav/internal/logger"
	"rav/internal/runner"
	"rav/internal/script"
	"rav/internal/vars"
)

// Context is the state one rav invocation works against.
type Context struct {
	Project  *config.Project
	Vars     vars.Table
	Settings config.Settings
}

// New builds a Context for project, resolving variables against environ.
func New(project *config.Project, settings config.Settings, environ []string) *Context {
	return &Context{
		Project:  project,
		Vars:     vars.Resolve(environ, project.Vars),
		Settings: settings,
	}
}

// Load reads the project file named by settings and builds its Context from
// the process environment.
func Load(settings config.Settings) (*Context, error) {
	project, err := config.LoadProject(settings.File)
	if err != nil {
		return nil, err
	}
	return &Context{
		Project:  project,
		Vars:     vars.FromEnvironment(project.Vars),
		Settings: settings,
	}, nil
}

// Join returns the configured command separator. An empty separator is
// honoured as given.
func (c *Context) Join() string {
	return c.Settings.Join
}

// Resolve resolves the script registered under name.
func (c *Context) Resolve(name string) (script.Resolution, error) {
	return script.Resolve(c.Project.Scripts, name)
}

// CommandLine resolves name, appends args to its last command and returns
// the single shell string to run together with the resolution.
func (c *Context) CommandLine(name string, args []string) (string, script.Resolution, error) {
	res, err := c.Resolve(name)
	if err != nil {
		return "", res, err
	}
	line, err := script.CommandLine(res, args, c.Vars, c.Join())
	if err != nil {
		return "", res, err
	}
	logger.Debug("[DEBUG] Resolved '%s' (group %q): %s\n", name, res.Group, line)
	return line, res, nil
}

// Runner returns the shell runner selected by the settings.
func (c *Context) Runner(streams runner.IO) runner.Runner {
	return runner.New(runner.Options{Shell: c.Settings.Shell, IO: streams})
}

// Download runs the download spec registered under name.
func (c *Context) Download(ctx context.Context, name string, client *http.Client) (*downloader.Summary, error) {
	if err := c.Project.DownloadsErr; err != nil {
		return nil, err
	}
	spec, ok := c.Project.Download(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", config.ErrDownloadNotFound, name)
	}
	if spec.Err != nil {
		return nil, spec.Err
	}
	return downloader.New(client, c.Settings.StagingDir).Run(ctx, spec)
}

// Row is one line of the script listing.
type Row struct {
	Name    string
	Command string
	// Err is set when an expanded row could not be materialized.
	Err error
}

// Rows lists the scripts in file order. With expanded set each row carries
// the fully materialized command; failures are kept on the row.
func (c *Context) Rows(expanded bool) []Row {
	names := c.Project.Scripts.Names()
	rows := make([]Row, 0, len(names))
	for _, name := range names {
		row := Row{Name: name}
		if expanded {
			res, err := c.Resolve(name)
			if err == nil {
				row.Command, err = script.Materialize(res, c.Vars, c.Join())
			}
			row.Err = err
		} else {
			entry, _ := c.Project.Scripts.Lookup(name)
			row.Command = Display(entry, c.Join())
		}
		rows = append(rows, row)
	}
	return rows
}

// Display renders an entry the way it was written, without resolving groups
// or variables.
func Display(e config.Entry, join string) string {
	switch e.Kind {
	case config.KindPlain:
		return e.Text
	case config.KindGroup:
		var parts []string
		if e.WorkingDir != nil && *e.WorkingDir != "" {
			parts = append(parts, "cd "+*e.WorkingDir)
		}
		if e.Prefix != nil && *e.Prefix != "" {
			parts = append(parts, *e.Prefix)
		}
		if len(e.Cmd) > 0 {
			parts = append(parts, strings.Join(e.Cmd, join))
		}
		if len(parts) == 0 {
			return "(group)"
		}
		return strings.Join(parts, " → ")
	case config.KindSequence:
		items := make([]string, 0, len(e.Steps))
		for _, st := range e.Steps {
			if st.Mapping && !st.HasCmd {
				items = append(items, st.Raw)
				continue
			}
			items = append(items, strings.Join(st.Commands, join))
		}
		return strings.Join(items, join)
	default:
		if e.Empty {
			return ""
		}
		return e.Text
	}
}

// DownloadRow is one line of the download listing.
type DownloadRow struct {
	Name        string
	Destination string
	Files       int
	// Err is set when the entry could not be decoded.
	Err error
}

// DownloadRows lists the configured download specs in file order.
func (c *Context) DownloadRows() []DownloadRow {
	rows := make([]DownloadRow, 0, len(c.Project.Downloads))
	for _, d := range c.Project.Downloads {
		rows = append(rows, DownloadRow{Name: d.Name, Destination: d.Destination, Files: len(d.Files), Err: d.Err})
	}
	return rows
}
