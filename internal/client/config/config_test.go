package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://sandbox-job-app.bosselt.com", c.ServerURL)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 4, c.SyncConcurrency)
	assert.Empty(t, c.SyncSchedule)
	assert.True(t, c.PullOnSync)
}

func TestLoadConfig_DefaultsWithoutArgs(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":            "http://json.example",
		"online_check_interval": "10s",
		"db_path":               "json.db",
	})

	cfg, err := LoadConfig([]string{"-config", path, "-a", "http://flag.example"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, "json.db", cfg.DBPath)
}

func TestLoadConfig_BadFile(t *testing.T) {
	_, err := LoadConfig([]string{"-c", "/does/not/exist.json"})
	require.Error(t, err)
}
