package hdimage

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records setup and generation outcomes for hdimage images
type Metrics struct {
	generateDuration metric.Float64Histogram
	bytesWritten     metric.Int64Counter
	setupFailures    metric.Int64Counter
}

// NewMetrics creates a new Metrics instance
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	generateDuration, err := meter.Float64Histogram(
		"hdimage_generate_duration_seconds",
		metric.WithDescription("Time to generate an image"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	bytesWritten, err := meter.Int64Counter(
		"hdimage_bytes_written_total",
		metric.WithDescription("Total number of image bytes laid out by generation"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	setupFailures, err := meter.Int64Counter(
		"hdimage_setup_failures_total",
		metric.WithDescription("Total number of rejected partition layouts"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		generateDuration: generateDuration,
		bytesWritten:     bytesWritten,
		setupFailures:    setupFailures,
	}, nil
}

// RecordGenerate records metrics for a finished generation
func (m *Metrics) RecordGenerate(ctx context.Context, status string, duration time.Duration, written int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))

	m.generateDuration.Record(ctx, duration.Seconds(), attrs)
	m.bytesWritten.Add(ctx, written, attrs)
}

// RecordSetupFailure counts a rejected layout
func (m *Metrics) RecordSetupFailure(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.setupFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", errorReason(err))))
}
