package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noDotEnv points at a file that does not exist so the working
// directory's .env never leaks into a test.
func noDotEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{DotEnv: noDotEnv(t), Environ: []string{}})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "msgboard.cue", `
backend:  "badger"
database: "/var/lib/msgboard"
`)

	cfg, err := Load(LoadOptions{File: path, DotEnv: noDotEnv(t), Environ: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Backend)
	assert.Equal(t, "/var/lib/msgboard", cfg.Database)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel, "omitted fields keep defaults")
}

func TestLoad_FileRejectsUnknownBackend(t *testing.T) {
	path := writeFile(t, "msgboard.cue", `backend: "leveldb"`)

	_, err := Load(LoadOptions{File: path, DotEnv: noDotEnv(t), Environ: []string{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "msgboard.cue")
}

func TestLoad_FileRejectsUnknownField(t *testing.T) {
	path := writeFile(t, "msgboard.cue", `port: 8080`)

	_, err := Load(LoadOptions{File: path, DotEnv: noDotEnv(t), Environ: []string{}})
	require.Error(t, err)
}

func TestLoad_FileSyntaxError(t *testing.T) {
	path := writeFile(t, "msgboard.cue", `backend: `)

	_, err := Load(LoadOptions{File: path, DotEnv: noDotEnv(t), Environ: []string{}})
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(LoadOptions{File: "/nonexistent/msgboard.cue", DotEnv: noDotEnv(t), Environ: []string{}})
	require.Error(t, err)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "msgboard.cue", `backend: "badger"`)

	cfg, err := Load(LoadOptions{
		File:    path,
		DotEnv:  noDotEnv(t),
		Environ: []string{"MSGBOARD_BACKEND=sqlite", "MSGBOARD_LOG_LEVEL=debug"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultDatabase, cfg.Database)
}

func TestLoad_DotEnv(t *testing.T) {
	dotenv := writeFile(t, ".env", "MSGBOARD_DB=from-dotenv.db\nMSGBOARD_LOG_LEVEL=warn\n")

	cfg, err := Load(LoadOptions{
		DotEnv:  dotenv,
		Environ: []string{"MSGBOARD_LOG_LEVEL=error"},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.Database)
	assert.Equal(t, "error", cfg.LogLevel, "process environment wins over .env")
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	_, err := Load(LoadOptions{DotEnv: noDotEnv(t), Environ: []string{"MSGBOARD_LOG_LEVEL=loud"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestOverride(t *testing.T) {
	base := Default()

	got := base.Override(Config{Database: "other.db"})
	assert.Equal(t, Config{Backend: "sqlite", Database: "other.db", LogLevel: "info"}, got)
	assert.Equal(t, Default(), base, "receiver is not modified")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Default(), false},
		{"badger", Config{Backend: "badger", Database: "dir", LogLevel: "error"}, false},
		{"empty database", Config{Backend: "sqlite", LogLevel: "info"}, true},
		{"bad backend", Config{Backend: "mysql", Database: "x", LogLevel: "info"}, true},
		{"bad level", Config{Backend: "sqlite", Database: "x", LogLevel: "trace"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
}
