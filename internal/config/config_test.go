package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv(envConfig, "")
	return root
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	root := isolate(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", c.API.BaseURL)
	assert.Equal(t, 30*time.Second, c.API.Timeout)
	assert.Equal(t, 3, c.API.Retries)
	assert.Equal(t, filepath.Join(root, "Downloads"), c.Export.Dir)
	assert.Equal(t, filepath.Join(root, "cache", "indicure", "debug.log"), c.Log.Path)
	assert.True(t, c.UI.AltScreen)
	assert.True(t, c.UI.Mouse)
	assert.Equal(t, "127.0.0.1:8000", c.Server.Addr)
	assert.Contains(t, c.Server.AllowedOrigins, "http://localhost:5173")
}

func TestLoadReadsDefaultConfigFile(t *testing.T) {
	root := isolate(t)
	writeConfig(t, filepath.Join(root, "config", "indicure", "config.toml"), `
[api]
base_url = "http://reports.internal:9000"
timeout = "5s"

[ui]
mouse = false
`)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://reports.internal:9000", c.API.BaseURL)
	assert.Equal(t, 5*time.Second, c.API.Timeout)
	assert.False(t, c.UI.Mouse)
	assert.True(t, c.UI.AltScreen)
}

func TestLoadExplicitFileAndEnvOverride(t *testing.T) {
	root := isolate(t)
	path := filepath.Join(root, "elsewhere.toml")
	writeConfig(t, path, `
[export]
dir = "/srv/exports"

[log]
level = "debug"
`)
	t.Setenv(envConfig, path)
	t.Setenv("INDICURE_LOG_LEVEL", "warn")
	t.Setenv("INDICURE_API_RETRIES", "0")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/exports", c.Export.Dir)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, 0, c.API.Retries)

	level, err := c.Log.ZapLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	root := isolate(t)
	t.Setenv(envConfig, filepath.Join(root, "missing.toml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for name, env := range map[string][2]string{
		"level":   {"INDICURE_LOG_LEVEL", "chatty"},
		"timeout": {"INDICURE_API_TIMEOUT", "0s"},
		"retries": {"INDICURE_API_RETRIES", "-1"},
	} {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv(env[0], env[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
