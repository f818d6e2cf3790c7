package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "output", cfg.Output.Directory)
	require.True(t, cfg.Markdown.Enabled)
	require.False(t, cfg.Markdown.HardWraps)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	writeFile(t, filepath.Join(root, DefaultFile), `
output:
  directory: public
  clean: true
markdown:
  unsafe: false
logging:
  level: DEBUG
`)

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, "public", cfg.Output.Directory)
	require.True(t, cfg.Output.Clean)
	require.False(t, cfg.Markdown.Unsafe)
	require.True(t, cfg.Markdown.GFM)
	require.True(t, cfg.Markdown.InlineParts)
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
	require.Equal(t, ".siteignore", cfg.Source.IgnoreFile)
}

func TestLoad_ExpandsEnvFromDotEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv("PAGESMITH_TEST_HISTORY", "")
	require.NoError(t, os.Unsetenv("PAGESMITH_TEST_HISTORY"))
	writeFile(t, filepath.Join(root, EnvFile), "PAGESMITH_TEST_HISTORY=state/history.db\n")
	writeFile(t, filepath.Join(root, DefaultFile), "history:\n  path: ${PAGESMITH_TEST_HISTORY}\n")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, "state/history.db", cfg.History.Path)
}

func TestLoad_ProcessEnvWinsOverDotEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvLogLevel, "error")
	writeFile(t, filepath.Join(root, EnvFile), EnvLogLevel+"=debug\n")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, LogLevelError, cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "json")
	writeFile(t, filepath.Join(root, DefaultFile), "logging:\n  level: debug\n  format: text\n")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, LogLevelWarn, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestLoad_UnknownLevelFallsBack(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	writeFile(t, filepath.Join(root, DefaultFile), "logging:\n  level: chatty\n  format: xml\n")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")

	t.Run("explicit path missing", func(t *testing.T) {
		root := t.TempDir()
		_, err := Load(root, filepath.Join(root, "nope.yaml"))
		require.Error(t, err)
		require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	})

	t.Run("unknown key", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, DefaultFile), "outptu:\n  directory: x\n")
		_, err := Load(root, "")
		require.Error(t, err)
		require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, DefaultFile), "output: [\n")
		_, err := Load(root, "")
		require.Error(t, err)
	})
}

func TestLoad_EmptyDirectoryRestoresDefault(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	writeFile(t, filepath.Join(root, DefaultFile), "output:\n  directory: \"\"\n")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, "output", cfg.Output.Directory)
}

func TestResolve(t *testing.T) {
	require.Empty(t, Resolve("/site", ""))
	require.Equal(t, "/abs/out", Resolve("/site", "/abs/out"))
	require.Equal(t, filepath.Join("/site", "out"), Resolve("/site", "out"))
}

func TestLogLevel_SlogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, LogLevelDebug.SlogLevel())
	require.Equal(t, slog.LevelWarn, LogLevel("WARNING").SlogLevel())
	require.Equal(t, slog.LevelError, LogLevelError.SlogLevel())
	require.Equal(t, slog.LevelInfo, LogLevel("bogus").SlogLevel())
	require.Equal(t, LogFormatJSON, NormalizeLogFormat(" JSON "))
}
