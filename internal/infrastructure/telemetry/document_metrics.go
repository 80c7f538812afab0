package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Render outcomes recorded on swb_render_duration_ms
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// DocumentMetrics tracks rendered documents and skipped payment slips.
type DocumentMetrics struct {
	logger *zap.Logger

	documentsRendered *Counter
	slipsSkipped      *Counter
	numbersGenerated  *Counter
	renderDuration    *Histogram
}

// DocumentMetricsConfig holds configuration for document metrics.
type DocumentMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewDocumentMetrics creates the document instruments on cfg.Meter.
func NewDocumentMetrics(cfg DocumentMetricsConfig) (*DocumentMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dm := &DocumentMetrics{logger: logger}

	var err error
	dm.documentsRendered, err = NewCounter(
		cfg.Meter,
		"swb_documents_rendered_total",
		"Total number of documents rendered to PDF",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	dm.slipsSkipped, err = NewCounter(
		cfg.Meter,
		"swb_payment_slips_skipped_total",
		"Total number of invoices rendered without a payment slip",
		"{slips}",
	)
	if err != nil {
		return nil, err
	}

	dm.numbersGenerated, err = NewCounter(
		cfg.Meter,
		"swb_document_numbers_generated_total",
		"Total number of document numbers reserved",
		"{numbers}",
	)
	if err != nil {
		return nil, err
	}

	dm.renderDuration, err = NewHistogram(cfg.Meter,
		"swb_render_duration_ms",
		"Time spent rendering a document",
		"ms",
		RenderDurationBuckets,
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("Document metrics initialized")
	return dm, nil
}

// RecordRendered counts a successfully rendered document.
func (dm *DocumentMetrics) RecordRendered(ctx context.Context, docType string, d time.Duration) {
	if dm == nil {
		return
	}
	dm.documentsRendered.Inc(ctx, AttrDocType.String(docType))
	dm.renderDuration.RecordMillis(ctx, d, AttrDocType.String(docType), AttrOutcome.String(OutcomeSuccess))
}

// RecordRenderFailed records the duration of a failed render.
func (dm *DocumentMetrics) RecordRenderFailed(ctx context.Context, docType string, d time.Duration) {
	if dm == nil {
		return
	}
	dm.renderDuration.RecordMillis(ctx, d, AttrDocType.String(docType), AttrOutcome.String(OutcomeFailed))
}

// RecordSlipSkipped counts a payment slip left off a document.
func (dm *DocumentMetrics) RecordSlipSkipped(ctx context.Context, reason string) {
	if dm == nil {
		return
	}
	dm.slipsSkipped.Inc(ctx, AttrSkipReason.String(reason))
}

// RecordNumberGenerated counts a reserved document number.
func (dm *DocumentMetrics) RecordNumberGenerated(ctx context.Context, docType string) {
	if dm == nil {
		return
	}
	dm.numbersGenerated.Inc(ctx, AttrDocType.String(docType))
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewDocumentMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
