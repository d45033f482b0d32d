// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// HealthCheck adapts the resource manager to the health checker.
type HealthCheck struct {
	manager *Manager
}

// NewHealthCheck creates a health check backed by the resource manager.
func NewHealthCheck(manager *Manager) *HealthCheck {
	return &HealthCheck{manager: manager}
}

// Name returns the name of this check.
func (h *HealthCheck) Name() string {
	return "resource"
}

// Check fails when memory exceeds its limit or goroutine count passes 80%
// of its limit.
func (h *HealthCheck) Check(ctx context.Context) error {
	if usage := h.manager.MemoryUsage(); usage > h.manager.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", usage, h.manager.maxMemoryMB)
	}

	threshold := int64(float64(h.manager.maxGoroutines) * 0.8)
	if count := h.manager.GoroutineCount(); count > threshold {
		return fmt.Errorf("goroutine count %d exceeds threshold %d/%d",
			count, threshold, h.manager.maxGoroutines)
	}
	return nil
}
