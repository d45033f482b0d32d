// pkg/config/env_config_test.go
package config

import (
	"os"
	"testing"
	"time"
)

func clearCannonEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"CANNON_SERVER_ADDR",
		"CANNON_SERVER_PORT",
		"CANNON_HEALTH_PORT",
		"CANNON_MAX_SPECTATORS",
		"CANNON_READ_TIMEOUT",
		"CANNON_WRITE_TIMEOUT",
		"CANNON_TICK_RATE",
		"CANNON_BROADCAST_RATE",
		"CANNON_CB_MAX_REQUESTS",
		"CANNON_CB_INTERVAL",
		"CANNON_CB_TIMEOUT",
		"CANNON_CB_MAX_CONSECUTIVE_FAILS",
		"CANNON_MAX_MEMORY_MB",
		"CANNON_MAX_GOROUTINES",
		"CANNON_SHUTDOWN_TIMEOUT",
		"CANNON_RESOURCE_CHECK_INTERVAL",
	}
	for _, key := range vars {
		original := os.Getenv(key)
		os.Unsetenv(key)
		if original != "" {
			key, original := key, original
			t.Cleanup(func() { os.Setenv(key, original) })
		}
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	clearCannonEnv(t)

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() failed: %v", err)
	}

	if cfg.ServerAddr != "localhost" {
		t.Errorf("ServerAddr = %q, expected localhost", cfg.ServerAddr)
	}
	if cfg.ServerPort != 4590 {
		t.Errorf("ServerPort = %d, expected 4590", cfg.ServerPort)
	}
	if cfg.TickRate != 60 {
		t.Errorf("TickRate = %d, expected 60", cfg.TickRate)
	}
	if cfg.BroadcastRate != 20 {
		t.Errorf("BroadcastRate = %d, expected 20", cfg.BroadcastRate)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, expected 30s", cfg.ReadTimeout)
	}
	if cfg.MaxMemoryMB != 500 {
		t.Errorf("MaxMemoryMB = %d, expected 500", cfg.MaxMemoryMB)
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	clearCannonEnv(t)
	os.Setenv("CANNON_SERVER_PORT", "9999")
	os.Setenv("CANNON_TICK_RATE", "120")
	os.Setenv("CANNON_READ_TIMEOUT", "5s")
	defer func() {
		os.Unsetenv("CANNON_SERVER_PORT")
		os.Unsetenv("CANNON_TICK_RATE")
		os.Unsetenv("CANNON_READ_TIMEOUT")
	}()

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() failed: %v", err)
	}

	if cfg.ServerPort != 9999 {
		t.Errorf("ServerPort = %d, expected 9999", cfg.ServerPort)
	}
	if cfg.TickRate != 120 {
		t.Errorf("TickRate = %d, expected 120", cfg.TickRate)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, expected 5s", cfg.ReadTimeout)
	}
}

func TestLoadConfigFromEnv_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad_int", key: "CANNON_SERVER_PORT", value: "not-a-number"},
		{name: "bad_duration", key: "CANNON_READ_TIMEOUT", value: "thirty seconds"},
		{name: "port_out_of_range", key: "CANNON_SERVER_PORT", value: "99999"},
		{name: "zero_tick_rate", key: "CANNON_TICK_RATE", value: "0"},
		{name: "broadcast_above_tick", key: "CANNON_BROADCAST_RATE", value: "600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCannonEnv(t)
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			if _, err := LoadConfigFromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
