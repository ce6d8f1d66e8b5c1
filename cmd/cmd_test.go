package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/logging"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/pipeline"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/validation"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolvePaths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		env        map[string]string
		args       []string
		wantInput  string
		wantOutput string
	}{
		{"defaults", nil, nil, DefaultInput, DefaultOutput},
		{"args", nil, []string{"in.csv", "out.csv"}, "in.csv", "out.csv"},
		{"input arg only", nil, []string{"in.csv"}, "in.csv", DefaultOutput},
		{"env beats args", map[string]string{InputEnv: "env.csv"}, []string{"in.csv", "out.csv"}, "env.csv", "out.csv"},
		{"both env", map[string]string{InputEnv: "a.csv", OutputEnv: "b.csv"}, nil, "a.csv", "b.csv"},
		{"empty arg falls through", nil, []string{"", ""}, DefaultInput, DefaultOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in, out, err := resolvePaths(envOf(tt.env), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInput, in)
			assert.Equal(t, tt.wantOutput, out)
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 1, exitCode(&validation.SchemaError{Missing: []string{"Status"}}))
	assert.Equal(t, 130, exitCode(fmt.Errorf("%w: %w", pipeline.ErrInterrupted, context.Canceled)))
}

func TestAlreadyLogged(t *testing.T) {
	t.Parallel()
	interrupted := loggedError{fmt.Errorf("%w: %w", pipeline.ErrInterrupted, context.Canceled)}

	assert.True(t, alreadyLogged(interrupted))
	assert.True(t, alreadyLogged(fmt.Errorf("wrapped: %w", loggedError{errors.New("boom")})))
	assert.False(t, alreadyLogged(errors.New("failed to load config: boom")))
	assert.Equal(t, 130, exitCode(interrupted))
	assert.Equal(t, "boom", loggedError{errors.New("boom")}.Error())
}

// execute runs the root command with args. Commands share package state, so
// callers must not run in parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(InputEnv, "")
	t.Setenv(OutputEnv, "")

	cfgFile, verbose, logDir = "", false, ""
	t.Cleanup(func() {
		closeLogger()
		cfg, logger = nil, nil
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_Sorts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Jira.csv")
	output := filepath.Join(dir, "sorted.csv")
	logs := filepath.Join(dir, "logs")
	require.NoError(t, os.WriteFile(input, []byte("Key,Status,Priority\nA,To Do,Low\nB,Done,High\n"), 0o644))

	out, err := execute(t, "--log-dir", logs, input, output)
	require.NoError(t, err)
	assert.Contains(t, out, "=== Sort Complete ===")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Key,Status,Priority\nB,Done,High\nA,To Do,Low\n", string(data))

	assert.FileExists(t, filepath.Join(logs, logging.CombinedLog))
	assert.FileExists(t, filepath.Join(logs, logging.ErrorLog))
}

func TestRootCommand_EnvOverridesArgs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "from_env.csv")
	require.NoError(t, os.WriteFile(input, []byte("Status,Priority\nDone,Low\n"), 0o644))

	out, err := execute(t, "--log-dir", filepath.Join(dir, "logs"), "--verbose", "ignored.csv", filepath.Join(dir, "out.csv"))
	require.Error(t, err, "no env set yet, ignored.csv does not exist")
	assert.NotContains(t, out, "Sort Complete")

	t.Setenv(InputEnv, input)
	require.NoError(t, rootCmd.Execute())
	assert.FileExists(t, filepath.Join(dir, "out.csv"))
}

func TestRootCommand_MissingColumnFails(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Jira.csv")
	output := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(input, []byte("Status\nDone\n"), 0o644))

	_, err := execute(t, "--log-dir", filepath.Join(dir, "logs"), input, output)
	var schemaErr *validation.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.True(t, alreadyLogged(err))
	assert.Equal(t, 1, exitCode(err))
	assert.NoFileExists(t, output)
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	_, err := execute(t, "a.csv", "b.csv", "c.csv")
	require.Error(t, err)
	assert.False(t, alreadyLogged(err))
}

func TestRootCommand_BadConfigIsNotLogged(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "ticketsort.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("logging:\n  level: loud\n"), 0o644))

	_, err := execute(t, "--config", bad, "--log-dir", filepath.Join(dir, "logs"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.False(t, alreadyLogged(err))
	assert.Equal(t, 1, exitCode(err))
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Jira.csv")
	require.NoError(t, os.WriteFile(input, []byte("Status,Priority\nDone,Low\nTriage,Low\n"), 0o644))

	out, err := execute(t, "validate", "--log-dir", filepath.Join(dir, "logs"), input)
	require.NoError(t, err)
	assert.Contains(t, out, "2 ticket(s), 1 warning(s)")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Ticket Sorter")
	assert.Contains(t, out, "Version:    "+Version)
	assert.Nil(t, logger)
}
