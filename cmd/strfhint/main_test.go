package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns stdout, stderr and the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDecodeArguments(t *testing.T) {
	out, _, err := execute(t, "", "7:20 PM", "WK30, 2023")
	require.NoError(t, err)
	assert.Equal(t, "%-I:%M %p\nWK%U, %Y\n", out)
}

func TestArgumentsAreNeverCommands(t *testing.T) {
	out, _, err := execute(t, "", "today", "Sunday")
	require.NoError(t, err)
	assert.Equal(t, "today\n%A\n", out)
}

func TestNoArgumentsShowsHelp(t *testing.T) {
	out, _, err := execute(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "strfhint reverse-engineers strftime format strings")
}

func TestPreviewFlag(t *testing.T) {
	out, _, err := execute(t, "", "--preview", "2023-11-21")
	require.NoError(t, err)
	assert.Equal(t, "%Y-%m-%d\n  preview: 2013-09-08\n", out)
}

func TestVerboseFlag(t *testing.T) {
	out, _, err := execute(t, "", "-v", "7:20 PM")
	require.NoError(t, err)
	assert.Equal(t, "7:20 PM\t=> %-I:%M %p\n  types: HOURS, MINUTES, AM_PM\n  mask:  111111111\n", out)
}

func TestExplainFlag(t *testing.T) {
	out, _, err := execute(t, "", "--explain", "2023-11-21")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "%Y-%m-%d", lines[0])
	assert.Contains(t, lines[1], "YEAR")
	assert.Contains(t, lines[2], "MONTH_NUM")
	assert.Contains(t, lines[3], "MONTHDAY_NUM")
}

func TestIgnoreFlag(t *testing.T) {
	out, _, err := execute(t, "", "--ignore", "mar", "mar 2021")
	require.NoError(t, err)
	assert.Equal(t, "mar %Y\n", out)
}

func TestInvalidWorkers(t *testing.T) {
	_, _, err := execute(t, "", "--workers", "0", "7:20 PM")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strfhint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preview: true\npreviewTime: \"2024-02-29T23:59:58Z\"\n"), 0644))

	out, _, err := execute(t, "", "--config", path, "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "%Y-%m-%d\n  preview: 2024-02-29\n", out)

	_, _, err = execute(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestBatchFromStdin(t *testing.T) {
	out, _, err := execute(t, "7:20 PM\n\nWK30, 2023\n", "batch")
	require.NoError(t, err)
	assert.Equal(t, "%-I:%M %p\nWK%U, %Y\n", out)
}

func TestBatchFiles(t *testing.T) {
	dir := t.TempDir()
	sample := filepath.Join(dir, "samples.txt")
	require.NoError(t, os.WriteFile(sample, []byte("2022-04-12, sunday, 14:30\n"), 0644))
	missing := filepath.Join(dir, "missing.txt")

	out, errOut, err := execute(t, "", "batch", sample, missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInputs))

	assert.Equal(t, "%Y-%m-%d, %A, %H:%M\n", out)
	assert.Contains(t, errOut, "Warning: failed to read "+missing)
}

func TestCodesCommand(t *testing.T) {
	out, _, err := execute(t, "", "codes")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "%-I")
	assert.Contains(t, out, "MONTH_NAME")
	assert.Contains(t, out, "September")

	out, _, err = execute(t, "", "codes", "--formats")
	require.NoError(t, err)
	assert.Contains(t, out, "FORMAT")
	assert.Contains(t, out, "2013-09-08")
	assert.Contains(t, out, "7:06 AM")
}

func TestWatchRequiresPath(t *testing.T) {
	_, _, err := execute(t, "", "watch")
	assert.Error(t, err)
}
