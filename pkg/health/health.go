// Package health exposes liveness and readiness probes for the simulation
// server. Readiness aggregates per-component checks: the tick loop, the
// spectator feed listener, and process memory.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Check is one component's health probe.
type Check interface {
	// Name returns the unique name of this check.
	Name() string
	// Check returns an error when the component is unhealthy.
	Check(ctx context.Context) error
}

// Status is the aggregated health report.
type Status struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is one component's line in the report.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker runs the registered checks and serves the probe endpoints.
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewChecker creates an empty health checker.
func NewChecker() *Checker {
	return &Checker{
		checks: make(map[string]Check),
	}
}

// AddCheck registers a check, replacing any existing check of the same name.
func (hc *Checker) AddCheck(check Check) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck unregisters a check by name.
func (hc *Checker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes every registered check. The overall status is
// "healthy" only when all checks pass.
func (hc *Checker) CheckHealth(ctx context.Context) Status {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := Status{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: "healthy"}
	}

	return status
}

// LivenessHandler answers 200 whenever the process can serve HTTP at all.
func (hc *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs every check and answers 200 when all pass, 503
// otherwise, with the full report as the body.
func (hc *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// TickLoopCheck reports unhealthy when the simulation loop has stalled.
type TickLoopCheck struct {
	maxAge      time.Duration
	lastTickAge func() time.Duration
}

// NewTickLoopCheck creates a check that fails when the time since the last
// completed tick exceeds maxAge.
func NewTickLoopCheck(maxAge time.Duration, lastTickAge func() time.Duration) *TickLoopCheck {
	return &TickLoopCheck{
		maxAge:      maxAge,
		lastTickAge: lastTickAge,
	}
}

// Name returns the name of this check.
func (t *TickLoopCheck) Name() string {
	return "tick_loop"
}

// Check verifies the simulation loop is still producing ticks.
func (t *TickLoopCheck) Check(ctx context.Context) error {
	age := t.lastTickAge()
	if age > t.maxAge {
		return fmt.Errorf("last tick was %v ago, limit %v", age, t.maxAge)
	}
	return nil
}

// FeedCheck reports unhealthy when the spectator feed listener is down.
type FeedCheck struct {
	listenerAddr func() string
}

// NewFeedCheck creates a check backed by the feed server's listener address.
func NewFeedCheck(listenerAddr func() string) *FeedCheck {
	return &FeedCheck{listenerAddr: listenerAddr}
}

// Name returns the name of this check.
func (f *FeedCheck) Name() string {
	return "feed"
}

// Check verifies the feed listener is active.
func (f *FeedCheck) Check(ctx context.Context) error {
	if f.listenerAddr() == "" {
		return fmt.Errorf("feed listener is not active")
	}
	return nil
}

// MemoryCheck reports unhealthy when process memory exceeds the limit.
type MemoryCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryCheck creates a memory usage check.
func NewMemoryCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryCheck {
	return &MemoryCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this check.
func (m *MemoryCheck) Name() string {
	return "memory"
}

// Check verifies memory usage is within the configured limit.
func (m *MemoryCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
