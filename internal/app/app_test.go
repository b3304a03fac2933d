package app

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rav/internal/config"
	"rav/internal/runner"
	"rav/internal/script"
	"rav/internal/vars"
)

const projectYAML = `
name: demo
vars:
  registry: ghcr.io/acme
  tag: latest
scripts:
  echo: echo hello
  seq:
    - echo one
    - cmd: [echo two, echo three]
    - note: skipped
  build:
    working_dir: app
    prefix: npm run
  "build:lint": lint
  "build:test":
    cmd: test
    prefix: ""
  push: docker push ${{ vars.registry }}:${{ vars.tag }}
  broken: echo ${{ vars.missing }}
  nothing: ~
downloads:
  assets:
    destination: dist
    files:
      - url: https://example.com/a.txt
      - url: https://example.com/b.txt
`

func newContext(t *testing.T, environ ...string) *Context {
	t.Helper()
	project, err := config.ParseProject([]byte(projectYAML), "rav.yaml")
	require.NoError(t, err)
	return New(project, config.DefaultSettings(), environ)
}

func TestRowsRaw(t *testing.T) {
	c := newContext(t)

	want := []Row{
		{Name: "echo", Command: "echo hello"},
		{Name: "seq", Command: "echo one && echo two && echo three && {note: skipped}"},
		{Name: "build", Command: "cd app → npm run"},
		{Name: "build:lint", Command: "lint"},
		{Name: "build:test", Command: "test"},
		{Name: "push", Command: "docker push ${{ vars.registry }}:${{ vars.tag }}"},
		{Name: "broken", Command: "echo ${{ vars.missing }}"},
		{Name: "nothing", Command: ""},
	}
	if diff := cmp.Diff(want, c.Rows(false)); diff != "" {
		t.Errorf("Rows(false) mismatch (-want +got):\n%s", diff)
	}
}

func TestRowsExpanded(t *testing.T) {
	c := newContext(t)
	rows := c.Rows(true)
	byName := map[string]Row{}
	for _, r := range rows {
		byName[r.Name] = r
	}

	assert.Equal(t, "cd app && npm run lint", byName["build:lint"].Command)
	assert.Equal(t, "cd app && test", byName["build:test"].Command)
	assert.Equal(t, "docker push ghcr.io/acme:latest", byName["push"].Command)
	assert.Equal(t, "", byName["nothing"].Command)
	assert.NoError(t, byName["push"].Err)

	require.Error(t, byName["broken"].Err)
	assert.ErrorIs(t, byName["broken"].Err, vars.ErrUndefined)
	assert.Len(t, rows, 8)
}

func TestCommandLine(t *testing.T) {
	c := newContext(t, "tag=from-env", "EXTRA=1")

	line, res, err := c.CommandLine("push", []string{"--all-tags"})
	require.NoError(t, err)
	// Project vars win over the environment.
	assert.Equal(t, "docker push ghcr.io/acme:latest --all-tags", line)
	assert.Equal(t, "push", res.Name)

	_, _, err = c.CommandLine("absent", nil)
	assert.ErrorIs(t, err, script.ErrNotFound)
}

func TestCommandLineCustomJoin(t *testing.T) {
	c := newContext(t)
	c.Settings.Join = "; "

	line, _, err := c.CommandLine("seq", []string{"extra"})
	require.NoError(t, err)
	assert.Equal(t, "echo one; echo two; echo three extra", line)
}

func TestCommandLineEmptyJoin(t *testing.T) {
	c := newContext(t)
	c.Settings.Join = ""

	line, _, err := c.CommandLine("seq", nil)
	require.NoError(t, err)
	assert.Equal(t, "echo oneecho twoecho three", line)
}

func TestRunnerSelection(t *testing.T) {
	c := newContext(t)
	assert.IsType(t, &runner.Shell{}, c.Runner(runner.IO{}))

	c.Settings.Shell = config.ShellVirtual
	assert.IsType(t, &runner.Virtual{}, c.Runner(runner.IO{}))
}

func TestDownloadUnknown(t *testing.T) {
	c := newContext(t)
	_, err := c.Download(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, config.ErrDownloadNotFound)
}

func TestDownloadBrokenSpecOnlyFailsDownload(t *testing.T) {
	project, err := config.ParseProject([]byte("scripts:\n  hi: echo hi\ndownloads:\n  bad:\n    files: nope\n"), "rav.yaml")
	require.NoError(t, err)
	c := New(project, config.DefaultSettings(), nil)

	line, _, err := c.CommandLine("hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "echo hi", line)

	_, err = c.Download(context.Background(), "bad", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `download "bad"`)
	assert.NotErrorIs(t, err, config.ErrDownloadNotFound)

	rows := c.DownloadRows()
	require.Len(t, rows, 1)
	assert.Error(t, rows[0].Err)
}

func TestDownloadRows(t *testing.T) {
	c := newContext(t)
	assert.Equal(t, []DownloadRow{{Name: "assets", Destination: "dist", Files: 2}}, c.DownloadRows())
}

func TestDisplayGroupWithoutFields(t *testing.T) {
	empty := ""
	e := config.Entry{Kind: config.KindGroup, Prefix: &empty, HasCmd: true}
	assert.Equal(t, "(group)", Display(e, " && "))
}
