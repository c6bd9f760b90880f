package sink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ipwatch/internal/domain/metrics"
)

func testBatch() metrics.Batch {
	return metrics.Batch{
		Namespace:  metrics.DefaultNamespace,
		Timestamp:  time.Now().UTC(),
		Dimensions: map[string]string{metrics.DimensionNetworkID: "vpc-1"},
		Values: map[string]float64{
			metrics.MetricTotalIPs:             384,
			metrics.MetricUsedIPs:              300,
			metrics.MetricAvailableIPs:         84,
			metrics.MetricIPUtilizationPercent: 78.125,
			metrics.MetricENICount:             300,
		},
	}
}

func TestHTTPSink_PublishesBatch(t *testing.T) {
	var received payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewHTTPSink(srv.URL, 2*time.Second)
	if err := s.Publish(context.Background(), testBatch()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if received.Namespace != metrics.DefaultNamespace {
		t.Errorf("namespace = %q", received.Namespace)
	}
	if received.Dimensions[metrics.DimensionNetworkID] != "vpc-1" {
		t.Errorf("dimensions = %v", received.Dimensions)
	}
	if len(received.Metrics) != 5 {
		t.Fatalf("expected 5 data points, got %d", len(received.Metrics))
	}
	units := map[string]string{}
	for _, d := range received.Metrics {
		units[d.Name] = d.Unit
	}
	if units[metrics.MetricIPUtilizationPercent] != metrics.UnitPercent {
		t.Errorf("utilization unit = %q, want Percent", units[metrics.MetricIPUtilizationPercent])
	}
	if units[metrics.MetricTotalIPs] != metrics.UnitCount {
		t.Errorf("total unit = %q, want Count", units[metrics.MetricTotalIPs])
	}
}

func TestHTTPSink_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewHTTPSink(srv.URL, 2*time.Second)
	err := s.Publish(context.Background(), testBatch())
	if !errors.Is(err, metrics.ErrPublishFailed) {
		t.Fatalf("expected ErrPublishFailed, got %v", err)
	}
}

func TestHTTPSink_ConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewHTTPSink(url, time.Second)
	err := s.Publish(context.Background(), testBatch())
	if !errors.Is(err, metrics.ErrPublishFailed) {
		t.Fatalf("expected ErrPublishFailed, got %v", err)
	}
}
