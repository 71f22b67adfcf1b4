package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "data/secret.bin", cfg.MasterKeyPath)
	assert.Equal(t, "data/storage", cfg.StorageLocation)
	assert.Equal(t, 180*time.Second, cfg.PadWaitTimeout)
	assert.Equal(t, 15*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.HeartbeatEnabled)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PAD_WAIT_TIMEOUT_MS", "5000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HEARTBEAT_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.PadWaitTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.HeartbeatEnabled)
}

func TestGetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "whatever"}).GetGinMode())
}
