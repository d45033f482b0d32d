// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig contains deployment configuration loaded from CANNON_*
// environment variables. This covers the serving surfaces around the
// simulation (spectator feed, health/metrics HTTP) rather than gameplay.
type EnvironmentConfig struct {
	ServerAddr    string
	ServerPort    int
	HealthPort    int
	MaxSpectators int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	TickRate      int // simulation ticks per second
	BroadcastRate int // feed snapshots per second

	// Circuit breaker configuration for feed clients
	CircuitBreakerMaxRequests         int
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails int

	// Resource management configuration
	MaxMemoryMB           int64
	MaxGoroutines         int
	ShutdownTimeout       time.Duration
	ResourceCheckInterval time.Duration
}

// LoadConfigFromEnv builds an EnvironmentConfig from environment variables,
// falling back to safe defaults for anything unset. Malformed values are
// errors rather than silent fallbacks.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	cfg := &EnvironmentConfig{}
	var err error

	cfg.ServerAddr = getEnvString("CANNON_SERVER_ADDR", "localhost")

	if cfg.ServerPort, err = getEnvInt("CANNON_SERVER_PORT", 4590); err != nil {
		return nil, err
	}
	if cfg.HealthPort, err = getEnvInt("CANNON_HEALTH_PORT", 4591); err != nil {
		return nil, err
	}
	if cfg.MaxSpectators, err = getEnvInt("CANNON_MAX_SPECTATORS", 32); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = getEnvDuration("CANNON_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getEnvDuration("CANNON_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.TickRate, err = getEnvInt("CANNON_TICK_RATE", 60); err != nil {
		return nil, err
	}
	if cfg.BroadcastRate, err = getEnvInt("CANNON_BROADCAST_RATE", 20); err != nil {
		return nil, err
	}

	if cfg.CircuitBreakerMaxRequests, err = getEnvInt("CANNON_CB_MAX_REQUESTS", 3); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerInterval, err = getEnvDuration("CANNON_CB_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerTimeout, err = getEnvDuration("CANNON_CB_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerMaxConsecutiveFails, err = getEnvInt("CANNON_CB_MAX_CONSECUTIVE_FAILS", 5); err != nil {
		return nil, err
	}

	if cfg.MaxMemoryMB, err = getEnvInt64("CANNON_MAX_MEMORY_MB", 500); err != nil {
		return nil, err
	}
	if cfg.MaxGoroutines, err = getEnvInt("CANNON_MAX_GOROUTINES", 1000); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("CANNON_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ResourceCheckInterval, err = getEnvDuration("CANNON_RESOURCE_CHECK_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the environment configuration for unusable values.
func (c *EnvironmentConfig) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("server port %d out of range", c.ServerPort)
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("health port %d out of range", c.HealthPort)
	}
	if c.MaxSpectators <= 0 {
		return fmt.Errorf("max spectators must be positive, got %d", c.MaxSpectators)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.BroadcastRate <= 0 || c.BroadcastRate > c.TickRate {
		return fmt.Errorf("broadcast rate %d must be in (0, tick rate %d]", c.BroadcastRate, c.TickRate)
	}
	return nil
}

// getEnvString reads a string environment variable with a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable with a default.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", key, value)
	}
	return parsed, nil
}

// getEnvInt64 reads a 64-bit integer environment variable with a default.
func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", key, value)
	}
	return parsed, nil
}

// getEnvDuration reads a duration environment variable with a default.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, value)
	}
	return parsed, nil
}
