package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cimillas/ticket-reserve/internal/metrics"
)

func TestRequestLogger_LogsStatusAndPath(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	r := mux.NewRouter()
	r.Use(RequestLogger(logger, nil))
	r.HandleFunc("/reservations/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodGet, "/reservations/res-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" {
		t.Fatalf("expected method GET, got %v", fields["method"])
	}
	if fields["path"] != "/reservations/res-1" {
		t.Fatalf("expected request path, got %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusCreated) {
		t.Fatalf("expected status 201, got %v", fields["status"])
	}
}

func TestRequestLogger_RecordsMetricsByRouteTemplate(t *testing.T) {
	t.Parallel()

	m := metrics.New()

	r := mux.NewRouter()
	r.Use(RequestLogger(nil, m))
	r.HandleFunc("/reservations/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"res-1", "res-2"} {
		req := httptest.NewRequest(http.MethodGet, "/reservations/"+id, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
	}

	// Both requests land on the template label, not per-id labels.
	counter := m.Requests.WithLabelValues(http.MethodGet, "/reservations/{id}", "200")
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", got)
	}
}
