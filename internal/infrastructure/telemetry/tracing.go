package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for service spans
const TracerName = "swissbill"

// Attributes set on document spans
const (
	SpanDocType    = attribute.Key("document.type")
	SpanDocNumber  = attribute.Key("document.number")
	SpanLineCount  = attribute.Key("document.lines")
	SpanPageCount  = attribute.Key("document.pages")
	SpanSlipStatus = attribute.Key("document.slip")
)

// StartSpan starts an internal span named "{component}.{operation}" on the
// global tracer provider. The caller ends it.
//
//	ctx, span := telemetry.StartSpan(ctx, "document_service", "Render",
//		telemetry.SpanDocNumber.String(number))
//	defer span.End()
func StartSpan(ctx context.Context, component, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, component+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on the span and marks it failed. Nil span or
// error is a no-op.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span as successful.
func SetOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}
