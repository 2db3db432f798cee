package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.numble.io
  token: test-token
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.numble.io", cfg.API.BaseURL)
	assert.Equal(t, DefaultRequestTimeout, cfg.API.RequestTimeout)
	assert.Equal(t, DefaultSpinDuration, cfg.Wheel.SpinDuration)
	assert.Equal(t, DefaultFrameInterval, cfg.Wheel.FrameInterval)
	assert.Equal(t, DefaultSubjectPrefix, cfg.NATS.SubjectPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.numble.io
  request_timeout: 5s
storage:
  directory: /tmp/numble
wheel:
  spin_duration: 2s
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, "/tmp/numble", cfg.Storage.Directory)
	assert.Equal(t, 2*time.Second, cfg.Wheel.SpinDuration)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
api:
  token: test-token
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.numble.io
log:
  level: loud
`)

	_, err := Load(path)
	assert.Error(t, err)
}
