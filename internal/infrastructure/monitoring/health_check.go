package monitoring

import (
	"context"
	"sync"
	"time"
)

// CheckFunc reports whether a dependency is healthy.
type CheckFunc func(ctx context.Context) error

// HealthChecker runs named dependency checks with individual timeouts.
type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]check
}

type check struct {
	fn      CheckFunc
	timeout time.Duration
}

// HealthStatus is the JSON body served on the health endpoint.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]check)}
}

func (h *HealthChecker) AddCheck(name string, fn CheckFunc, timeout time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: fn, timeout: timeout}
}

// CheckAll runs every registered check. Any failure marks the whole status
// unhealthy.
func (h *HealthChecker) CheckAll(ctx context.Context) HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]string, len(h.checks)),
	}

	for name, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.fn(checkCtx)
		cancel()

		if err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = err.Error()
			continue
		}
		status.Checks[name] = "healthy"
	}

	return status
}

// Healthy reports whether all checks currently pass.
func (h *HealthChecker) Healthy(ctx context.Context) bool {
	return h.CheckAll(ctx).Status == "healthy"
}
