// Package config provides environment-backed configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm/logger"
)

// Defaults used when the corresponding environment variable is unset.
const (
	DefaultServerPort    = "8080"
	DefaultDBHost        = "localhost"
	DefaultDBPort        = 5432
	DefaultDBUser        = "postgres"
	DefaultDBPassword    = "postgres"
	DefaultDBName        = "workbridge"
	DefaultSweepInterval = time.Hour
	DefaultInvitationTTL = 7 * 24 * time.Hour
)

// Config holds the runtime configuration of the service.
type Config struct {
	ServerPort string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSL      bool
	DBLogLevel logger.LogLevel

	// SweepInterval is how often the invitation expiry sweep runs.
	SweepInterval time.Duration
	// InvitationTTL is the validity window of a new invitation.
	InvitationTTL time.Duration
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: GetEnv("SERVER_PORT", DefaultServerPort),
		DBHost:     GetEnv("DB_HOST", DefaultDBHost),
		DBUser:     GetEnv("DB_USER", DefaultDBUser),
		DBPassword: GetEnv("DB_PASSWORD", DefaultDBPassword),
		DBName:     GetEnv("DB_NAME", DefaultDBName),
		DBPort:     DefaultDBPort,
		DBSSL:      GetEnv("DB_SSL", "false") == "true",
		DBLogLevel: logger.Warn,

		SweepInterval: DefaultSweepInterval,
		InvitationTTL: DefaultInvitationTTL,
	}

	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT %q: %w", portStr, err)
		}
		cfg.DBPort = port
	}

	var err error
	if cfg.SweepInterval, err = durationEnv("SWEEP_INTERVAL", DefaultSweepInterval); err != nil {
		return nil, err
	}
	if cfg.InvitationTTL, err = durationEnv("INVITATION_TTL", DefaultInvitationTTL); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
