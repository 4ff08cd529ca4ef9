package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/roll-extractor/internal/config"
	"github.com/a3tai/roll-extractor/internal/pdf/pdftest"
)

func runArgs(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"roll-extractor"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// writeRoll writes a one-page roll with header LIMA/LIMA/1 and two voters
func writeRoll(t *testing.T, dir, name string) string {
	t.Helper()
	return pdftest.WriteFile(t, dir, name, pdftest.Page{
		{S: "LIMA", X: 191, Y: 27},
		{S: "1", X: 484, Y: 27},
		{S: "LIMA", X: 191, Y: 39},
		{S: "ROSA", X: 24, Y: 67},
		{S: "LUIS", X: 24, Y: 75},
	})
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	version = "1.2.3"
	buildTime = "2024-05-01_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)

	out := buf.String()
	assert.Contains(t, out, "Roll Extractor")
	assert.Contains(t, out, "Version: 1.2.3")
	assert.Contains(t, out, "Build Time: 2024-05-01_10:30:00")
	assert.Contains(t, out, "Git Commit: abc123")
	assert.Contains(t, out, "Built with: go")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runArgs("--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Version: ")
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runArgs("--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "Usage of roll-extractor")
}

func TestRun_NoInput(t *testing.T) {
	code, stdout, stderr := runArgs()
	assert.Equal(t, exitOK, code)
	assert.Equal(t, config.MissingInputMessage+"\n", stdout)
	assert.Contains(t, stderr, "--file")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	code, _, stderr := runArgs("--file", "a.pdf", "--dir", "rolls")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Failed to load configuration")
}

func TestRun_FileToConsole(t *testing.T) {
	path := writeRoll(t, t.TempDir(), "roll.pdf")

	code, stdout, stderr := runArgs("--file", path, "--loglevel", "error")
	require.Equal(t, exitOK, code, stderr)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ROSA "))
	assert.True(t, strings.HasPrefix(lines[1], "LUIS "))
}

func TestRun_FileToDelimited(t *testing.T) {
	path := writeRoll(t, t.TempDir(), "roll.pdf")
	outDir := filepath.Join(t.TempDir(), "out")

	code, stdout, stderr := runArgs("--file", path, "--output", "csv", "--delimiter", ";", "--outdir", outDir)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "document extracted")

	data, err := os.ReadFile(filepath.Join(outDir, "lima-lima-1.csv"))
	require.NoError(t, err)
	assert.Equal(t, "ROSA;;;;;\nLUIS;;;;;\n", string(data))
}

func TestRun_MissingFile(t *testing.T) {
	code, _, stderr := runArgs("--file", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stderr, "extraction failed")
}

func TestRun_Directory(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	writeRoll(t, dir, "a.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("not a pdf"), 0o644))

	code, _, stderr := runArgs("--dir", dir, "--output", "delimited", "--outdir", outDir)
	assert.Equal(t, exitFailed, code, "a failing file is reported in the exit code")
	assert.Contains(t, stderr, "parsing file")
	assert.Contains(t, stderr, "failed to process file")

	data, err := os.ReadFile(filepath.Join(outDir, "lima-lima-1.csv"))
	require.NoError(t, err, "the readable roll was still extracted")
	assert.Equal(t, "ROSA,,,,,\nLUIS,,,,,\n", string(data))
}

func TestRun_BadLayout(t *testing.T) {
	path := writeRoll(t, t.TempDir(), "roll.pdf")
	code, _, stderr := runArgs("--file", path, "--layout", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stderr, "failed to load layout")
}
