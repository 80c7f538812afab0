package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttrAccount    = attribute.Key("account")
	AttrDocType    = attribute.Key("type")
	AttrSkipReason = attribute.Key("reason")
	AttrOutcome    = attribute.Key("outcome")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrStatusClass    = attribute.Key("http.status_class")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")
)

// Histogram bucket boundaries
var (
	// RenderDurationBuckets in milliseconds
	RenderDurationBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
	// HTTPDurationBuckets in milliseconds
	HTTPDurationBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	// ResponseSizeBuckets in bytes; rendered PDFs fill the upper range
	ResponseSizeBuckets = []float64{256, 1024, 8192, 32768, 131072, 524288, 2097152, 8388608}
)

// Counter is a monotonically increasing int64 instrument.
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a Counter on meter.
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Inc adds one.
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram records float64 samples into fixed buckets.
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a Histogram on meter. Empty buckets keep the SDK
// defaults.
func NewHistogram(meter metric.Meter, name, description, unit string, buckets []float64) (*Histogram, error) {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(description),
		metric.WithUnit(unit),
	}
	if len(buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(buckets...))
	}
	h, err := meter.Float64Histogram(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return &Histogram{histogram: h}, nil
}

// Record adds one sample.
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// RecordMillis adds d as fractional milliseconds.
func (h *Histogram) RecordMillis(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, float64(d)/float64(time.Millisecond), attrs...)
}
