package sink

import (
	"context"

	"ipwatch/internal/domain/metrics"

	"github.com/rs/zerolog/log"
)

// LogSink writes each batch to the application log instead of a metrics
// backend. Used when no ingestion endpoint is configured.
type LogSink struct{}

// NewLogSink creates a log-backed sink.
func NewLogSink() *LogSink { return &LogSink{} }

// Publish implements metrics.Sink.
func (s *LogSink) Publish(ctx context.Context, batch metrics.Batch) error {
	ev := log.Info().
		Str("namespace", batch.Namespace).
		Time("timestamp", batch.Timestamp)
	for k, v := range batch.Dimensions {
		ev = ev.Str(k, v)
	}
	for name, value := range batch.Values {
		ev = ev.Float64(name, value)
	}
	ev.Msg("metrics batch")
	return nil
}
