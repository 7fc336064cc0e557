package health_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/socios/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(p health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	logger := slog.Default()
	return health.NewChecker(map[string]health.Pinger{"postgres": p}, logger, reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(&mockPinger{err: errors.New("db down")})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_PostgresUp(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	pg, ok := result.Checks["postgres"]
	if !ok {
		t.Fatal("missing postgres check")
	}
	if pg.Status != "up" {
		t.Fatalf("expected postgres up, got %s", pg.Status)
	}

	gauge := testGauge(t, reg, "socios_health_check_up", "postgres")
	if gauge != 1 {
		t.Fatalf("expected gauge 1, got %f", gauge)
	}
}

func TestReadiness_PostgresDown(t *testing.T) {
	c, reg := newTestChecker(&mockPinger{err: errors.New("connection refused")})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	pg := result.Checks["postgres"]
	if pg.Status != "down" {
		t.Fatalf("expected postgres down, got %s", pg.Status)
	}
	if pg.Error == "" {
		t.Fatal("expected error message")
	}

	gauge := testGauge(t, reg, "socios_health_check_up", "postgres")
	if gauge != 0 {
		t.Fatalf("expected gauge 0, got %f", gauge)
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

func TestReadiness_OneOfManyDown(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := health.NewChecker(map[string]health.Pinger{
		"postgres": &mockPinger{},
		"smtp": health.PingFunc(func(context.Context) error {
			return errors.New("dial tcp: i/o timeout")
		}),
	}, slog.Default(), reg)

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	if result.Checks["postgres"].Status != "up" {
		t.Fatalf("expected postgres up, got %s", result.Checks["postgres"].Status)
	}
	if result.Checks["smtp"].Status != "down" {
		t.Fatalf("expected smtp down, got %s", result.Checks["smtp"].Status)
	}
	if g := testGauge(t, reg, "socios_health_check_up", "smtp"); g != 0 {
		t.Fatalf("expected smtp gauge 0, got %f", g)
	}
}

func TestWriteResult_StatusCodes(t *testing.T) {
	w := httptest.NewRecorder()
	health.WriteResult(w, health.HealthResult{Status: "up"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	health.WriteResult(w, health.HealthResult{Status: "down"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"down"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestWithTimeout_CancelsSlowDependency(t *testing.T) {
	slow := health.PingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	reg := prometheus.NewRegistry()
	c := health.NewChecker(map[string]health.Pinger{
		"email": health.WithTimeout(slow, 20*time.Millisecond),
	}, slog.Default(), reg)

	start := time.Now()
	result := c.Readiness(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("readiness took %v, want it bounded by the timeout", elapsed)
	}
	if result.Checks["email"].Status != "down" {
		t.Fatalf("expected email down, got %s", result.Checks["email"].Status)
	}
	if !strings.Contains(result.Checks["email"].Error, "deadline") {
		t.Fatalf("expected deadline error, got %q", result.Checks["email"].Error)
	}
}

func TestWithTimeout_PassesThroughHealthyDependency(t *testing.T) {
	p := health.WithTimeout(&mockPinger{}, time.Second)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
