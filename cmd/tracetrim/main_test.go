package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/tracetrim/trim"
)

const sample = "C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7\n" +
	"C5F5  A2 00     LDX #$00                        A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 30 CYC:10\n"

const sampleTrimmed = "C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD\n" +
	"C5F5  A2 00     LDX #$00                        A:00 X:00 Y:00 P:24 SP:FD\n"

// clearEnv keeps TRACETRIM_* variables from the host out of the test and
// restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRACETRIM_CONFIG",
		"TRACETRIM_LOG_LEVEL",
		"TRACETRIM_MAX_WIDTH",
		"TRACETRIM_SOURCE",
		"TRACETRIM_DESTINATION",
		"TRACETRIM_UNIT",
		"TRACETRIM_ATOMIC",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"tracetrim", "--env-file", ""}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func setup(t *testing.T) (src, dst string) {
	t.Helper()
	clearEnv(t)
	dir := t.TempDir()
	src = filepath.Join(dir, "nestest.log")
	dst = filepath.Join(dir, "modifiedtest.log")
	require.NoError(t, os.WriteFile(src, []byte(sample), 0o644))
	return src, dst
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_PositionalArgs(t *testing.T) {
	src, dst := setup(t)

	code, _, stderr := runCLI(t, src, dst)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, sampleTrimmed, readFile(t, dst))
	assert.Contains(t, stderr, "trace trimmed")
	assert.Contains(t, stderr, "records=2")
	assert.Contains(t, stderr, "run_id=")
}

func TestRun_Flags(t *testing.T) {
	src, dst := setup(t)

	code, _, stderr := runCLI(t, "-w", "4", "-i", src, "-o", dst)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "C000\nC5F5\n", readFile(t, dst))
}

func TestRun_ZeroWidth(t *testing.T) {
	src, dst := setup(t)

	code, _, stderr := runCLI(t, "--max-width", "0", src, dst)
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "invalid configuration")

	_, err := os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_SourceNotFound(t *testing.T) {
	_, dst := setup(t)

	code, _, stderr := runCLI(t, filepath.Join(filepath.Dir(dst), "missing.log"), dst)
	assert.Equal(t, exitSource, code)
	assert.Contains(t, stderr, "source not found")
}

func TestRun_DestinationUnwritable(t *testing.T) {
	src, _ := setup(t)

	code, _, _ := runCLI(t, src, filepath.Join(src, "out.log"))
	assert.Equal(t, exitDestination, code)
}

func TestRun_TooManyArgs(t *testing.T) {
	src, dst := setup(t)

	code, _, _ := runCLI(t, src, dst, "extra")
	assert.Equal(t, exitConfig, code)
}

func TestRun_UnknownFlag(t *testing.T) {
	setup(t)

	code, _, _ := runCLI(t, "--no-such-flag")
	assert.Equal(t, exitConfig, code)
}

func TestRun_BadLogLevel(t *testing.T) {
	src, dst := setup(t)

	code, _, _ := runCLI(t, "--log-level", "chatty", src, dst)
	assert.Equal(t, exitConfig, code)
}

func TestRun_ConfigFile(t *testing.T) {
	src, dst := setup(t)
	cfgPath := filepath.Join(t.TempDir(), "tracetrim.toml")
	content := fmt.Sprintf("max_width = 4\nsource = %q\ndestination = %q\n", src, dst)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	code, _, stderr := runCLI(t, "--config", cfgPath)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "C000\nC5F5\n", readFile(t, dst))

	// Flags win over the file.
	code, _, stderr = runCLI(t, "--config", cfgPath, "-w", "2")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "C0\nC5\n", readFile(t, dst))
}

func TestRun_BadConfigFile(t *testing.T) {
	setup(t)
	cfgPath := filepath.Join(t.TempDir(), "tracetrim.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_widht: 4\n"), 0o644))

	code, _, _ := runCLI(t, "--config", cfgPath)
	assert.Equal(t, exitConfig, code)
}

func TestRun_Environment(t *testing.T) {
	src, dst := setup(t)
	t.Setenv("TRACETRIM_MAX_WIDTH", "6")

	code, _, stderr := runCLI(t, src, dst)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "C000  \nC5F5  \n", readFile(t, dst))
}

func TestRun_DotEnv(t *testing.T) {
	src, dst := setup(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TRACETRIM_MAX_WIDTH=1\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"tracetrim", "--env-file", envPath, src, dst}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "C\nC\n", readFile(t, dst))
}

func TestRun_DotEnvConfigPath(t *testing.T) {
	src, dst := setup(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tracetrim.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_width = 4\n"), 0o644))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TRACETRIM_CONFIG="+cfgPath+"\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"tracetrim", "--env-file", envPath, src, dst}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "C000\nC5F5\n", readFile(t, dst))
}

func TestRun_DotEnvLogLevel(t *testing.T) {
	src, dst := setup(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TRACETRIM_LOG_LEVEL=debug\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"tracetrim", "--env-file", envPath, src, dst}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stderr.String(), "level=DEBUG")

	// A bad level from the env file is a usage error like the flag.
	require.NoError(t, os.WriteFile(envPath, []byte("TRACETRIM_LOG_LEVEL=chatty\n"), 0o644))
	clearEnv(t)
	code = run(context.Background(), []string{"tracetrim", "--env-file", envPath, src, dst}, &stdout, &stderr)
	assert.Equal(t, exitConfig, code)
}

func TestRun_DotEnvDoesNotOverrideFlags(t *testing.T) {
	src, dst := setup(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TRACETRIM_CONFIG="+filepath.Join(t.TempDir(), "missing.toml")+"\n"), 0o644))
	cfgPath := filepath.Join(t.TempDir(), "tracetrim.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_width = 2\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"tracetrim", "--env-file", envPath, "--config", cfgPath, src, dst}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "C0\nC5\n", readFile(t, dst))
}

func TestRun_DotEnvMissingIsIgnored(t *testing.T) {
	src, dst := setup(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"tracetrim", "--env-file", filepath.Join(t.TempDir(), ".env"), src, dst}, &stdout, &stderr)
	assert.Equal(t, exitOK, code, stderr.String())
}

func TestRun_WatchInPlaceRejected(t *testing.T) {
	src, _ := setup(t)

	code, _, stderr := runCLI(t, "--watch", src, src)
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "in place")
}

func TestRun_WatchInPlaceThroughLinkRejected(t *testing.T) {
	src, _ := setup(t)
	link := filepath.Join(filepath.Dir(src), "link.log")
	require.NoError(t, os.Symlink(src, link))

	code, _, stderr := runCLI(t, "--watch", src, link)
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "in place")
}

func TestCompare(t *testing.T) {
	src, dst := setup(t)
	require.Equal(t, exitOK, func() int { code, _, _ := runCLI(t, src, dst); return code }())

	code, stdout, stderr := runCLI(t, "compare", "-w", "73", dst, src)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "traces match (2 lines)")

	code, stdout, _ = runCLI(t, "compare", dst, src)
	assert.Equal(t, exitMismatch, code)
	assert.Contains(t, stdout, "line 1, column 74 differs")
	assert.Contains(t, stdout, "stopped after 1 mismatches")
}

func TestCompare_Usage(t *testing.T) {
	src, _ := setup(t)

	code, _, _ := runCLI(t, "compare", src)
	assert.Equal(t, exitConfig, code)

	code, _, _ = runCLI(t, "compare", "--unit", "columns", src, src)
	assert.Equal(t, exitConfig, code)

	code, _, _ = runCLI(t, "compare", "-w", "-1", src, src)
	assert.Equal(t, exitConfig, code)
}

func TestCompare_MissingFile(t *testing.T) {
	src, _ := setup(t)

	code, _, _ := runCLI(t, "compare", src, filepath.Join(t.TempDir(), "missing.log"))
	assert.Equal(t, exitSource, code)
}

func TestSchema(t *testing.T) {
	clearEnv(t)

	code, stdout, _ := runCLI(t, "schema")
	require.Equal(t, exitOK, code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Contains(t, doc["properties"], "max_width")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: exitOK},
		{name: "usage", err: usageError{err: errors.New("bad flag")}, expected: exitConfig},
		{name: "mismatch", err: mismatchError{count: 1}, expected: exitMismatch},
		{name: "invalid config", err: fmt.Errorf("x: %w", trim.ErrInvalidConfiguration), expected: exitConfig},
		{name: "source not found", err: trim.ErrSourceNotFound, expected: exitSource},
		{name: "source unreadable", err: trim.ErrSourceUnreadable, expected: exitSource},
		{name: "destination", err: trim.ErrDestinationUnwritable, expected: exitDestination},
		{name: "canceled", err: context.Canceled, expected: exitCanceled},
		{name: "not exist", err: os.ErrNotExist, expected: exitSource},
		{name: "other", err: errors.New("boom"), expected: exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCode(tt.err))
		})
	}
}

func TestCompare_UnknownFlag(t *testing.T) {
	src, _ := setup(t)

	code, _, _ := runCLI(t, "compare", "--bogus", src, src)
	assert.Equal(t, exitConfig, code)
}
