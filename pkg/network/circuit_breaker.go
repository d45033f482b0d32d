// pkg/network/circuit_breaker.go
package network

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/igupta1/CannonShooter/pkg/config"
	"github.com/igupta1/CannonShooter/pkg/logging"
)

// FeedDialer wraps outbound feed operations with a circuit breaker so a dead
// server fails fast instead of stacking reconnect attempts.
type FeedDialer struct {
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

// Operation is one network attempt run through the breaker.
type Operation func() error

// NewFeedDialer creates a FeedDialer with breaker thresholds taken from the
// environment configuration.
func NewFeedDialer(envConfig *config.EnvironmentConfig) *FeedDialer {
	logger := logging.NewLogger()

	settings := gobreaker.Settings{
		Name:        "cannon-feed",
		MaxRequests: uint32(envConfig.CircuitBreakerMaxRequests),
		Interval:    envConfig.CircuitBreakerInterval,
		Timeout:     envConfig.CircuitBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(envConfig.CircuitBreakerMaxConsecutiveFails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from,
				"to", to,
			)
		},
	}

	return &FeedDialer{
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// Execute runs one operation through the breaker. When the circuit is open
// the operation is rejected without being attempted.
func (d *FeedDialer) Execute(ctx context.Context, operation Operation) error {
	_, err := d.breaker.Execute(func() (interface{}, error) {
		return nil, operation()
	})
	if err != nil {
		d.logger.LogWithContext(ctx, slog.LevelError, "circuit breaker execution failed",
			"error", err,
			"state", d.breaker.State(),
		)
		return fmt.Errorf("circuit breaker: %w", err)
	}
	return nil
}

// ExecuteWithRetry runs the operation with linear backoff between attempts.
// Retries stop early when the circuit opens; there is no point hammering a
// breaker that already rejects everything.
func (d *FeedDialer) ExecuteWithRetry(ctx context.Context, operation Operation) error {
	const maxRetries = 3
	const baseDelay = time.Second

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := d.Execute(ctx, operation)
		if err == nil {
			return nil
		}

		if d.breaker.State() == gobreaker.StateOpen {
			d.logger.LogWithContext(ctx, slog.LevelWarn, "circuit open, abandoning retries",
				"attempt", attempt+1,
			)
			return err
		}

		if attempt == maxRetries-1 {
			return fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, err)
		}

		delay := time.Duration(attempt+1) * baseDelay
		d.logger.LogWithContext(ctx, slog.LevelWarn, "feed operation failed, retrying",
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("unexpected exit from retry loop")
}

// State returns the breaker's current state.
func (d *FeedDialer) State() gobreaker.State {
	return d.breaker.State()
}

// Counts returns the breaker's request counts.
func (d *FeedDialer) Counts() gobreaker.Counts {
	return d.breaker.Counts()
}
