package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAPI("GET", "/api/cart", "200", time.Millisecond)
	m.IncCartAdd()
	m.ObserveReservation(true)
	m.ObserveJourneyAdvance(false)
	m.IncLiveUpdate("funding")
	if m.Registry() != nil {
		t.Fatalf("nil metrics should have no registry")
	}
}

func TestMetrics_CountersByResult(t *testing.T) {
	m := NewMetrics()
	m.ObserveReservation(true)
	m.ObserveReservation(true)
	m.ObserveReservation(false)
	if got := testutil.ToFloat64(m.reservations.WithLabelValues("reserved")); got != 2 {
		t.Fatalf("reserved: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.reservations.WithLabelValues("insufficient")); got != 1 {
		t.Fatalf("insufficient: want=1 got=%v", got)
	}
	m.ObserveJourneyAdvance(true)
	if got := testutil.ToFloat64(m.journeyAdvances.WithLabelValues("advanced")); got != 1 {
		t.Fatalf("advanced: want=1 got=%v", got)
	}
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/products", "200", 20*time.Millisecond)
	m.IncCartAdd()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`botanica_api_requests_total{method="GET",route="/api/products",status="200"} 1`,
		"botanica_cart_adds_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestInitOTel_DisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{Enabled: false})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders("api-key=abc, x-team = botanica ,broken,=nokey")
	if len(got) != 2 || got["api-key"] != "abc" || got["x-team"] != "botanica" {
		t.Fatalf("unexpected headers: %#v", got)
	}
	if ParseHeaders("  ") != nil {
		t.Fatalf("empty input should yield nil")
	}
}
