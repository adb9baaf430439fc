package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and an empty environment.
func runCLI(t *testing.T, environ []string, args ...string) (string, string, error) {
	t.Helper()
	if environ == nil {
		environ = []string{}
	}

	cmd := newRootCommand(&RootOptions{Environ: environ})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "msgboard", cmd.Use)
	assert.Contains(t, cmd.Long, "append-only")
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := runCLI(t, nil, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "msgboard version 0.1.0")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"init", "add", "execute", "query", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "backend", "db"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "missing --%s", name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestSenderFlagsRequired(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"init", "add", "execute"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		flag := sub.Flags().Lookup("sender")
		require.NotNil(t, flag, "%s has no --sender", name)
		assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag])
	}
}

func TestInvalidFormat(t *testing.T) {
	db := filepath.Join(t.TempDir(), "board.db")
	_, _, err := runCLI(t, nil, "init", "--sender", "admin", "--db", db, "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestInvalidBackendFlag(t *testing.T) {
	db := filepath.Join(t.TempDir(), "board.db")
	_, _, err := runCLI(t, nil, "init", "--sender", "admin", "--db", db, "--backend", "leveldb")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "Backend")
}

func TestUnknownFlag(t *testing.T) {
	_, _, err := runCLI(t, nil, "init", "--nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMissingRequiredFlag(t *testing.T) {
	db := filepath.Join(t.TempDir(), "board.db")
	_, _, err := runCLI(t, nil, "add", "--db", db, "--topic", "t")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "sender")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	boardDir := filepath.Join(dir, "board")
	cfgPath := filepath.Join(dir, "msgboard.cue")
	content := `backend: "badger"
database: "` + boardDir + `"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	_, _, err := runCLI(t, nil, "init", "--sender", "admin", "--config", cfgPath)
	require.NoError(t, err)

	info, err := os.Stat(boardDir)
	require.NoError(t, err, "badger directory should exist")
	assert.True(t, info.IsDir())
}

func TestConfigFile_Invalid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "msgboard.cue")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`backend: "leveldb"`), 0644))

	_, _, err := runCLI(t, nil, "query", `{"get_current_id":{}}`, "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestEnvironmentDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "env.db")

	_, _, err := runCLI(t, []string{"MSGBOARD_DB=" + db}, "init", "--sender", "admin")
	require.NoError(t, err)
	assert.FileExists(t, db)
}

func TestVerboseLogsToStderr(t *testing.T) {
	db := filepath.Join(t.TempDir(), "board.db")

	stdout, stderr, err := runCLI(t, nil, "init", "--sender", "admin", "--db", db, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "config resolved")
	assert.Contains(t, stderr, "transition committed")
	assert.NotContains(t, stdout, "config resolved")
}
