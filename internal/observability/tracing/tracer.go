package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the application's tracer.
const TracerName = "inkwell"

// GetTracer returns the application tracer from the current global provider.
// It is looked up per call so a provider installed later takes effect.
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Setup installs a tracer provider sampling the given ratio of root spans
// and the W3C propagators. The caller shuts the provider down on exit.
// No exporter is attached: spans exist for trace IDs in logs and headers.
func Setup(sampleRatio float64) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp
}

// StartHelper starts the span of one template helper call.
func StartHelper(ctx context.Context, helper string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "helper."+helper,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("template.helper", helper)),
	)
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
