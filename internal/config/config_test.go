// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MAX_ROOMS", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0, cfg.MaxRooms)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_ROOMS", "50")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 50, cfg.MaxRooms)
}

func TestInvalidMaxRoomsFallsBack(t *testing.T) {
	t.Setenv("MAX_ROOMS", "lots")
	assert.Equal(t, 0, Load().MaxRooms)
}
