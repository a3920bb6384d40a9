package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/yamdb-auth/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(deps map[string]health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return health.NewChecker(deps, slog.Default(), reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(map[string]health.Pinger{"postgres": &mockPinger{err: errors.New("db down")}})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_AllUp(t *testing.T) {
	c, reg := newTestChecker(map[string]health.Pinger{
		"postgres": &mockPinger{},
		"redis":    &mockPinger{},
	})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	for _, dep := range []string{"postgres", "redis"} {
		if result.Checks[dep].Status != "up" {
			t.Fatalf("expected %s up, got %+v", dep, result.Checks[dep])
		}
	}

	if got := testGauge(t, reg, "yamdb_health_check_up", "redis"); got != 1 {
		t.Fatalf("expected redis gauge 1, got %f", got)
	}
}

func TestReadiness_RedisDown(t *testing.T) {
	c, reg := newTestChecker(map[string]health.Pinger{
		"postgres": &mockPinger{},
		"redis":    &mockPinger{err: errors.New("connection refused")},
	})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	if result.Checks["postgres"].Status != "up" {
		t.Fatalf("expected postgres up, got %+v", result.Checks["postgres"])
	}
	redis := result.Checks["redis"]
	if redis.Status != "down" || redis.Error == "" {
		t.Fatalf("expected redis down with error, got %+v", redis)
	}

	if got := testGauge(t, reg, "yamdb_health_check_up", "redis"); got != 0 {
		t.Fatalf("expected redis gauge 0, got %f", got)
	}
}

func testGauge(t *testing.T, reg *prometheus.Registry, name, depLabel string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == depLabel {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{dependency=%q} not found", name, depLabel)
	return 0
}
