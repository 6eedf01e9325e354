package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheckerAllPassing(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck("store", func(ctx context.Context) error { return nil }, time.Second)
	hc.AddCheck("cache", func(ctx context.Context) error { return nil }, time.Second)

	status := hc.CheckAll(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Checks["store"])
	assert.Equal(t, "healthy", status.Checks["cache"])
	assert.True(t, hc.Healthy(context.Background()))
}

func TestHealthCheckerOneFailureMarksUnhealthy(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck("store", func(ctx context.Context) error { return nil }, time.Second)
	hc.AddCheck("cache", func(ctx context.Context) error { return errors.New("connection refused") }, time.Second)

	status := hc.CheckAll(context.Background())

	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "healthy", status.Checks["store"])
	assert.Equal(t, "connection refused", status.Checks["cache"])
	assert.False(t, hc.Healthy(context.Background()))
}

func TestHealthCheckerTimeoutReachesCheck(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, 10*time.Millisecond)

	status := hc.CheckAll(context.Background())

	assert.Equal(t, "unhealthy", status.Status)
	assert.Contains(t, status.Checks["slow"], "context deadline exceeded")
}

func TestHealthCheckerNoChecks(t *testing.T) {
	hc := NewHealthChecker()
	assert.Equal(t, "healthy", hc.CheckAll(context.Background()).Status)
}
