// Package resource tracks process memory and goroutine usage against the
// configured limits and coordinates graceful shutdown of tracked goroutines.
package resource

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/igupta1/CannonShooter/pkg/config"
	"github.com/igupta1/CannonShooter/pkg/logging"
)

// Manager enforces the process resource limits: it counts tracked
// goroutines, samples memory usage on an interval, and drains tracked work
// on shutdown.
type Manager struct {
	maxMemoryMB     int64
	maxGoroutines   int64
	shutdownTimeout time.Duration
	checkInterval   time.Duration

	goroutineCount int64
	memoryUsageMB  int64

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.RWMutex
	running bool
	logger  *logging.Logger
}

// NewManager creates a resource manager from the environment configuration.
func NewManager(cfg *config.EnvironmentConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		maxMemoryMB:     cfg.MaxMemoryMB,
		maxGoroutines:   int64(cfg.MaxGoroutines),
		shutdownTimeout: cfg.ShutdownTimeout,
		checkInterval:   cfg.ResourceCheckInterval,
		ctx:             ctx,
		cancel:          cancel,
		done:            make(chan struct{}),
		logger:          logging.NewLogger(),
	}
}

// Start begins the periodic resource monitoring loop.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("resource manager already running")
	}
	m.running = true
	m.mu.Unlock()

	go m.monitoringLoop()

	m.logger.Info(m.ctx, "resource manager started",
		"max_memory_mb", m.maxMemoryMB,
		"max_goroutines", m.maxGoroutines,
		"check_interval", m.checkInterval,
	)
	return nil
}

// Go starts fn as a tracked goroutine with panic recovery. It fails when the
// goroutine limit is already reached.
func (m *Manager) Go(ctx context.Context, name string, fn func(context.Context)) error {
	current := atomic.LoadInt64(&m.goroutineCount)
	if current >= m.maxGoroutines {
		return fmt.Errorf("goroutine limit exceeded: %d/%d", current, m.maxGoroutines)
	}

	atomic.AddInt64(&m.goroutineCount, 1)

	go func() {
		defer atomic.AddInt64(&m.goroutineCount, -1)
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error(ctx, "tracked goroutine panicked",
					fmt.Errorf("panic: %v", r),
					"name", name,
				)
			}
		}()
		fn(ctx)
	}()

	return nil
}

// CheckMemoryUsage samples current heap usage and compares it to the limit.
func (m *Manager) CheckMemoryUsage() error {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	currentMB := int64(stats.Alloc / 1024 / 1024)
	atomic.StoreInt64(&m.memoryUsageMB, currentMB)

	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// GoroutineCount returns the number of currently tracked goroutines.
func (m *Manager) GoroutineCount() int64 {
	return atomic.LoadInt64(&m.goroutineCount)
}

// MemoryUsage returns the last sampled heap usage in MB.
func (m *Manager) MemoryUsage() int64 {
	return atomic.LoadInt64(&m.memoryUsageMB)
}

// Shutdown stops monitoring and waits for tracked goroutines to drain,
// bounded by the configured shutdown timeout.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	m.cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
	defer cancel()

	select {
	case <-m.done:
	case <-shutdownCtx.Done():
		m.logger.Warn(ctx, "monitoring loop did not stop before the shutdown deadline")
	}

	return m.waitForGoroutines(shutdownCtx)
}

func (m *Manager) waitForGoroutines(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if m.GoroutineCount() == 0 {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			remaining := m.GoroutineCount()
			return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
		}
	}
}

func (m *Manager) monitoringLoop() {
	defer close(m.done)

	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.CheckMemoryUsage(); err != nil {
				m.logger.Error(m.ctx, "memory limit exceeded", err,
					"current_mb", m.MemoryUsage(),
					"limit_mb", m.maxMemoryMB,
				)
			}
			m.logger.Debug(m.ctx, "resource usage",
				"goroutines", m.GoroutineCount(),
				"memory_mb", m.MemoryUsage(),
			)
		case <-m.ctx.Done():
			return
		}
	}
}
