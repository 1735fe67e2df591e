package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".soiltwin"), cfg.Home)
	assert.Equal(t, "/api", cfg.API.BaseURL)
	assert.Equal(t, "http://localhost:8000", cfg.API.Origin)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendTOML, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, ".soiltwin", "session.toml"), cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 5*time.Second, cfg.Poll.SecondaryInterval)
	assert.Equal(t, "Ludhiana,IN", cfg.WeatherLocation)
	assert.Equal(t, filepath.Join(home, ".soiltwin", "logs", "st.log"), cfg.Log.File)
}

func TestLoadEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SOILTWIN_API_BASE_URL", "https://soil.example.com/api")
	t.Setenv("SOILTWIN_POLL_INTERVAL", "500ms")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "https://soil.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Poll.Interval)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".soiltwin")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	content := `
[storage]
backend = "file"
dir = "~/state"

[weather]
location = "Pune,IN"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, "state"), cfg.Storage.Dir)
	assert.Equal(t, "Pune,IN", cfg.WeatherLocation)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	testCases := []struct {
		name string
		env  string
		val  string
	}{
		{name: "unknown backend", env: "SOILTWIN_STORAGE_BACKEND", val: "redis"},
		{name: "zero timeout", env: "SOILTWIN_API_TIMEOUT", val: "0s"},
		{name: "bad log level", env: "SOILTWIN_LOG_LEVEL", val: "chatty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv(tc.env, tc.val)

			_, err := Load(viper.New())
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".soiltwin")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[api\n"), 0o600))

	_, err := Load(viper.New())
	require.ErrorContains(t, err, "read config file")
}
