package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/precheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset persistent flag state between invocations
	defer func() {
		configPath = ""
		noColor = false
		verbosity = 0
		reportPath = ""
		runParallel = false
		runAllFiles = false
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "precheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "precheck version")
}

func TestValidateCommand(t *testing.T) {
	path := writeConfig(t, `
actions:
  noop:
    run: "true {files}"
    include: "*.py"
`)

	out, err := executeCommand(t, "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (1 actions)")
}

func TestValidateCommandBadConfig(t *testing.T) {
	path := writeConfig(t, `
actions:
  broken:
    include: "*.py"
`)

	_, err := executeCommand(t, "validate", "--config", path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestListCommand(t *testing.T) {
	path := writeConfig(t, `
actions:
  format:
    run: "black {files}"
    include: "*.py"
    mutating: true
  security:
    run: "bandit {files}"
    include: "*.py"
    enabled: false
`)

	out, err := executeCommand(t, "list", "--config", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "format [mutating]")
	assert.Contains(t, out, "security [disabled]")
	assert.Contains(t, out, "run:     black {files}")
	assert.Contains(t, out, "include: *.py")
}

func TestRunCommandEndToEnd(t *testing.T) {
	path := writeConfig(t, `
settings:
  color: never
actions:
  noop:
    run: "true {files}"
    include: "*.py"
`)

	out, err := executeCommand(t, "run", "--config", path, "x.py")
	require.NoError(t, err)
	assert.Contains(t, out, "noop")
	assert.Contains(t, out, "all checks passed")
}

func TestRunCommandFailure(t *testing.T) {
	path := writeConfig(t, `
settings:
  color: never
actions:
  fails:
    run: "false {files}"
    include: "*.py"
  passes:
    run: "true {files}"
    include: "*.py"
`)

	out, err := executeCommand(t, "run", "--config", path, "x.py")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrActionExecute))
	assert.Equal(t, exitFailure, exitCode(err))
	assert.Contains(t, out, "1 passed, 1 failed")
}

func TestRunCommandNoMatches(t *testing.T) {
	path := writeConfig(t, `
settings:
  color: never
actions:
  noop:
    run: "true {files}"
    include: "*.py"
`)

	_, err := executeCommand(t, "run", "--config", path, "readme.txt")
	require.NoError(t, err)
}

func TestRunCommandWritesReport(t *testing.T) {
	cfg := writeConfig(t, `
settings:
  color: never
actions:
  noop:
    run: "true {files}"
    include: "*.py"
`)
	reportFile := filepath.Join(t.TempDir(), "report.xml")

	_, err := executeCommand(t, "run", "--config", cfg, "--report", reportFile, "x.py")
	require.NoError(t, err)

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<testsuite")
	assert.Contains(t, string(data), `name="noop"`)
}

func TestTopicsCommand(t *testing.T) {
	out, err := executeCommand(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration")
	assert.Contains(t, out, "running")

	_, err = executeCommand(t, "topics", "nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, exitUsage, exitCode(errors.New(errors.ErrConfigParse, "bad yaml")))
	assert.Equal(t, exitUsage, exitCode(errors.New(errors.ErrGlobInvalid, "bad glob")))
	assert.Equal(t, exitInterrupted, exitCode(errors.New(errors.ErrInterrupted, "ctrl-c")))
	assert.Equal(t, exitFailure, exitCode(errors.New(errors.ErrActionExecute, "tool failed")))
	assert.Equal(t, exitFailure, exitCode(os.ErrPermission))
}
