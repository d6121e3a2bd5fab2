package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readiness(t *testing.T, h *Handler) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	h.ReadinessHandler()(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

// ==================== Liveness ====================

func TestLiveness_AlwaysUp(t *testing.T) {
	h := NewHandler()
	rec := httptest.NewRecorder()
	h.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"up"`)
}

// ==================== Readiness ====================

func TestReadiness_NoChecksIsReady(t *testing.T) {
	h := NewHandler()
	rec, resp := readiness(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadiness_CriticalFailureFlipsReadiness(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("redis", func(ctx context.Context) error {
		return fmt.Errorf("connection refused")
	})

	rec, resp := readiness(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusDown, resp.Status)
	require.Contains(t, resp.Checks, "redis")
	assert.Equal(t, StatusDown, resp.Checks["redis"].Status)
	assert.True(t, resp.Checks["redis"].Critical)
}

func TestReadiness_NonCriticalFailureReportedButReady(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("redis", func(ctx context.Context) error { return nil })
	h.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return fmt.Errorf("broker unreachable")
	})

	rec, resp := readiness(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, resp.Status)
	require.Contains(t, resp.Checks, "kafka")
	assert.Equal(t, StatusDown, resp.Checks["kafka"].Status)
	assert.False(t, resp.Checks["kafka"].Critical)
	assert.Equal(t, StatusUp, resp.Checks["redis"].Status)
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("redis", func(ctx context.Context) error { return nil })
	h.RegisterNonCritical("backend", func(ctx context.Context) error { return nil })

	rec, resp := readiness(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Checks, 2)
	for name, check := range resp.Checks {
		assert.Equal(t, StatusUp, check.Status, "check %s", name)
	}
}
