package logging

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	originalLevel := os.Getenv("CANNON_LOG_LEVEL")
	defer os.Setenv("CANNON_LOG_LEVEL", originalLevel)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("CANNON_LOG_LEVEL", tt.envValue)
			level := getLogLevelFromEnv()
			if level != tt.expected {
				t.Errorf("getLogLevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestCorrelationID(t *testing.T) {
	t.Run("generate correlation ID", func(t *testing.T) {
		id1 := GenerateCorrelationID()
		id2 := GenerateCorrelationID()

		if id1 == "" {
			t.Error("GenerateCorrelationID() returned empty string")
		}
		if id1 == id2 {
			t.Error("GenerateCorrelationID() returned duplicate IDs")
		}
	})

	t.Run("context round trip", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "test-id")
		if got := GetCorrelationID(ctx); got != "test-id" {
			t.Errorf("GetCorrelationID() = %q, want %q", got, "test-id")
		}
	})

	t.Run("empty id generates one", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "")
		if GetCorrelationID(ctx) == "" {
			t.Error("expected a generated correlation ID")
		}
	})

	t.Run("missing id returns empty", func(t *testing.T) {
		if got := GetCorrelationID(context.Background()); got != "" {
			t.Errorf("GetCorrelationID() = %q, want empty", got)
		}
	})
}

func TestWrapError(t *testing.T) {
	t.Run("wraps with context", func(t *testing.T) {
		base := errors.New("boom")
		wrapped := WrapError(base, "loading config %q", "game.json")
		if wrapped == nil {
			t.Fatal("WrapError() returned nil")
		}
		if !errors.Is(wrapped, base) {
			t.Error("wrapped error lost the original")
		}
	})

	t.Run("nil error stays nil", func(t *testing.T) {
		if WrapError(nil, "context") != nil {
			t.Error("WrapError(nil) should return nil")
		}
	})
}
