package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordImagePublished(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordImagePublished()
	c.RecordImagePublished()

	if got := testutil.ToFloat64(c.imagesPublished); got != 2 {
		t.Errorf("viora_images_published_total = %v, want 2", got)
	}
}

func TestCollector_RecordHeartToggle(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHeartToggle("like")
	c.RecordHeartToggle("like")
	c.RecordHeartToggle("unlike")

	if got := testutil.ToFloat64(c.heartToggles.WithLabelValues("like")); got != 2 {
		t.Errorf("viora_heart_toggles_total{action=like} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.heartToggles.WithLabelValues("unlike")); got != 1 {
		t.Errorf("viora_heart_toggles_total{action=unlike} = %v, want 1", got)
	}
}

func TestCollector_StreamClientsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordStreamConnected()
	c.RecordStreamConnected()
	c.RecordStreamDisconnected()

	if got := testutil.ToFloat64(c.streamClients); got != 1 {
		t.Errorf("viora_stream_clients = %v, want 1", got)
	}
}

func TestCollector_RecordGenerateFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordGenerateFailure("rate_limited")

	if got := testutil.ToFloat64(c.generateFailures.WithLabelValues("rate_limited")); got != 1 {
		t.Errorf("viora_generate_failures_total{reason=rate_limited} = %v, want 1", got)
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordImagePublished()
	c.RecordGenerateLatency(250 * time.Millisecond)

	h := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, name := range []string{
		"viora_images_published_total",
		"viora_generate_latency_seconds",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output should contain %q", name)
		}
	}
}
