// internal/config/config.go

// Package config loads process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds everything the server reads from the environment once at
// startup. Empty DatabaseURL and RedisAddr are valid and disable the
// corresponding subsystem.
type Config struct {
	ListenAddr  string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	LogLevel    string

	// MaxRooms caps concurrent rooms; 0 means unlimited.
	MaxRooms int
}

// Load reads .env if present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Info("loaded configuration from .env")
	}

	return Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MaxRooms:    getEnvInt("MAX_ROOMS", 0),
	}
}

// ApplyLogLevel configures the global logger from the loaded level,
// falling back to info on garbage.
func (c Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("invalid LOG_LEVEL %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warnf("invalid %s %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
