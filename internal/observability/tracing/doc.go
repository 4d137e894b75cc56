// Package tracing provides OpenTelemetry tracing integration: the application
// tracer, an HTTP server middleware, and helpers for per-helper spans.
//
// Example usage:
//
//	tp := tracing.Setup(1.0)
//	defer func() { _ = tp.Shutdown(context.Background()) }()
//
//	ctx, span := tracing.StartHelper(ctx, "archives")
//	months, err := svc.Months(ctx)
//	tracing.EndSpan(span, err)
package tracing
