package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ipwatch/internal/domain/metrics"
)

// HTTPSink publishes batches as JSON to a metrics ingestion endpoint.
// Publishing is fire-and-forget: any transport or non-2xx failure is
// reported as metrics.ErrPublishFailed, never retried here.
type HTTPSink struct {
	client   *http.Client
	endpoint string
}

// datum is the wire shape for one measurement.
type datum struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type payload struct {
	Namespace  string            `json:"namespace"`
	Timestamp  time.Time         `json:"timestamp"`
	Dimensions map[string]string `json:"dimensions"`
	Metrics    []datum           `json:"metrics"`
}

// NewHTTPSink creates a sink posting to endpoint with the given timeout.
func NewHTTPSink(endpoint string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSink{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				MaxConnsPerHost: 10,
				IdleConnTimeout: 90 * time.Second,
			},
			Timeout: timeout,
		},
		endpoint: endpoint,
	}
}

// Publish implements metrics.Sink.
func (s *HTTPSink) Publish(ctx context.Context, batch metrics.Batch) error {
	data := make([]datum, 0, len(batch.Values))
	for name, value := range batch.Values {
		data = append(data, datum{Name: name, Value: value, Unit: metrics.UnitFor(name)})
	}

	body, err := json.Marshal(payload{
		Namespace:  batch.Namespace,
		Timestamp:  batch.Timestamp,
		Dimensions: batch.Dimensions,
		Metrics:    data,
	})
	if err != nil {
		return fmt.Errorf("%w: encode batch: %w", metrics.ErrPublishFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", metrics.ErrPublishFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", metrics.ErrPublishFailed, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: endpoint returned %s", metrics.ErrPublishFailed, resp.Status)
	}
	return nil
}
