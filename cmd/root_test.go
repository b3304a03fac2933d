//go:build !windows

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rav/internal/config"
)

const testProject = `
name: cli-test
vars:
  greeting: hi
scripts:
  ok: "true"
  fail: exit 3
  echo: echo
  greet: echo ${{ vars.greeting }}
  broken: echo ${{ vars.nope }}
  web:
    working_dir: site
    prefix: npm run
  "web:build": build
`

// writeProject writes the test project into a temp dir and returns its path.
func writeProject(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "rav.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testProject), 0o644))
	return dir, path
}

// captureOut redirects command output for the duration of the test.
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	t.Cleanup(func() { rootCmd.SetOut(nil) })
	return &buf
}

func TestRunExitCodes(t *testing.T) {
	_, path := writeProject(t)

	assert.Equal(t, 0, execute([]string{"--file", path, "run", "ok"}))
	assert.Equal(t, 3, execute([]string{"--file", path, "run", "fail"}))
	assert.Equal(t, 3, execute([]string{"--file", path, "x", "fail"}))
}

func TestRunPassesArgumentsAndFlags(t *testing.T) {
	dir, path := writeProject(t)
	out := filepath.Join(dir, "out.txt")

	code := execute([]string{"--file", path, "run", "echo", "--verbose", "x", ">", out})
	require.Equal(t, 0, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "--verbose x\n", string(got))
}

func TestRunSubstitutesVariables(t *testing.T) {
	dir, path := writeProject(t)
	out := filepath.Join(dir, "greet.txt")

	require.Equal(t, 0, execute([]string{"--file", path, "run", "greet", ">", out}))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(got))

	assert.Equal(t, 1, execute([]string{"--file", path, "run", "broken"}))
}

func TestRunVirtualShell(t *testing.T) {
	_, path := writeProject(t)
	assert.Equal(t, 3, execute([]string{"--file", path, "--shell", "virtual", "run", "fail"}))
	assert.Equal(t, 0, execute([]string{"--file", path, "--shell", "", "run", "ok"}))
}

func TestRunUnknownScriptListsScripts(t *testing.T) {
	_, path := writeProject(t)
	buf := captureOut(t)

	assert.Equal(t, 1, execute([]string{"--file", path, "run", "missing"}))
	assert.Contains(t, buf.String(), "greet")
	assert.Contains(t, buf.String(), "web:build")
}

func TestMissingProjectFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	assert.Equal(t, 1, execute([]string{"--file", missing, "run", "ok"}))
	assert.Equal(t, 1, execute([]string{"--file", missing, "list"}))
}

func TestBrokenDownloadOnlyFailsDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rav.yaml")
	project := "scripts:\n  ok: \"true\"\ndownloads:\n  bad:\n    destination: out\n    overwrite: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(project), 0o644))
	buf := captureOut(t)

	assert.Equal(t, 0, execute([]string{"--file", path, "run", "ok"}))
	assert.Equal(t, 0, execute([]string{"--file", path, "list"}))
	assert.Contains(t, buf.String(), "error: ")
	assert.Equal(t, 1, execute([]string{"--file", path, "download", "bad"}))
}

func TestListRawAndExpanded(t *testing.T) {
	_, path := writeProject(t)
	buf := captureOut(t)

	require.Equal(t, 0, execute([]string{"--file", path, "list", "--expanded=false"}))
	assert.Contains(t, buf.String(), "cd site → npm run")
	assert.Contains(t, buf.String(), "${{ vars.greeting }}")

	buf.Reset()
	require.Equal(t, 0, execute([]string{"--file", path, "list", "--expanded"}))
	assert.Contains(t, buf.String(), "cd site && npm run build")
	assert.Contains(t, buf.String(), "echo hi")
	assert.Contains(t, buf.String(), "undefined variable: nope")
}

func TestJoinOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rav.yaml")
	out := filepath.Join(dir, "seq.txt")
	project := "scripts:\n  seq:\n    - echo a > " + out + "\n    - false\n    - echo b >> " + out + "\n"
	require.NoError(t, os.WriteFile(path, []byte(project), 0o644))

	// With "; " the failing middle command no longer stops the chain.
	require.Equal(t, 0, execute([]string{"--file", path, "--join", "; ", "run", "seq"}))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(got))

	require.Equal(t, 1, execute([]string{"--file", path, "--join", config.DefaultJoin, "run", "seq"}))
}

func TestSample(t *testing.T) {
	t.Chdir(t.TempDir())

	require.Equal(t, 0, execute([]string{"sample"}))
	assert.FileExists(t, config.SampleFile)
	assert.Equal(t, 1, execute([]string{"sample"}))
	assert.Equal(t, 0, execute([]string{"sample", "--overwrite"}))

	project, err := config.LoadProject(config.SampleFile)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"echo", "server", "win-server"}, project.Scripts.Names())
}

func TestVersion(t *testing.T) {
	buf := captureOut(t)
	require.Equal(t, 0, execute([]string{"version"}))
	assert.Contains(t, buf.String(), "Version ")
}

func TestInvalidShellSetting(t *testing.T) {
	_, path := writeProject(t)
	assert.Equal(t, 1, execute([]string{"--file", path, "--shell", "bash -x", "run", "ok"}))
	// Reset the persistent flag for later tests.
	require.NoError(t, rootCmd.PersistentFlags().Set("shell", ""))
}

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	e := &ExitError{Code: 4, Err: inner}
	assert.Equal(t, "boom", e.Error())
	assert.ErrorIs(t, e, inner)
	assert.Equal(t, "exit status 2", (&ExitError{Code: 2}).Error())
}
