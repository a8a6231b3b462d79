package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		ConfigPathEnv,
		"TASKTRACK_SERVER_HOST", "TASKTRACK_SERVER_PORT",
		"TASKTRACK_DB_PATH", "TASKTRACK_LOG_LEVEL", "TASKTRACK_LOG_PATH",
		"TASKTRACK_TRANSPORT", "TASKTRACK_AUTH_ENABLED",
		"TASKTRACK_AUTH_DEFAULT_TENANT", "TASKTRACK_AUTH_DEFAULT_USER",
		"TASKTRACK_FETCH_CONCURRENCY",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 9000
db:
  path: /tmp/file.db
transport:
  mode: stdio
auth:
  default_user: carol
progress:
  fetch_concurrency: 4
`), 0o600))

	t.Setenv(ConfigPathEnv, path)
	t.Setenv("TASKTRACK_SERVER_PORT", "9100")
	t.Setenv("TASKTRACK_LOG_LEVEL", "debug")
	t.Setenv("TASKTRACK_AUTH_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9100, cfg.Server.Port, "env overrides file")
	require.Equal(t, "/tmp/file.db", cfg.DB.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "default", cfg.Auth.DefaultTenant, "unset keys keep defaults")
	require.Equal(t, "carol", cfg.Auth.DefaultUser)
	require.Equal(t, 4, cfg.Progress.FetchConcurrency)
}

func TestLoadEnvNames(t *testing.T) {
	clearEnv(t)

	t.Setenv("TASKTRACK_DB_PATH", "/data/tt.db")
	t.Setenv("TASKTRACK_LOG_PATH", "/var/log/tt.log")
	t.Setenv("TASKTRACK_TRANSPORT", "stdio")
	t.Setenv("TASKTRACK_AUTH_DEFAULT_TENANT", "acme")
	t.Setenv("TASKTRACK_AUTH_DEFAULT_USER", "dave")
	t.Setenv("TASKTRACK_FETCH_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/data/tt.db", cfg.DB.Path)
	require.Equal(t, "/var/log/tt.log", cfg.Log.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "acme", cfg.Auth.DefaultTenant)
	require.Equal(t, "dave", cfg.Auth.DefaultUser)
	require.Equal(t, 8, cfg.Progress.FetchConcurrency)
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TASKTRACK_SERVER_PORT", "not-a-number")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(ConfigPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := Load()
		require.ErrorContains(t, err, "read config file")
	})

	t.Run("bad yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
		t.Setenv(ConfigPathEnv, path)
		_, err := Load()
		require.ErrorContains(t, err, "parse config file")
	})

	t.Run("invalid transport", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TASKTRACK_TRANSPORT", "carrier-pigeon")
		_, err := Load()
		require.ErrorContains(t, err, "invalid transport mode")
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Log.Level = "loud"
	cfg.Server.Port = 0
	cfg.Progress.FetchConcurrency = -1
	err := cfg.Validate()
	require.ErrorContains(t, err, "invalid log level")
	require.ErrorContains(t, err, "invalid server port")
	require.ErrorContains(t, err, "invalid fetch concurrency")

	cfg = Default()
	cfg.Auth.DefaultTenant = ""
	require.ErrorContains(t, cfg.Validate(), "default tenant")
	cfg.Auth.Enabled = true
	require.NoError(t, cfg.Validate())
}
