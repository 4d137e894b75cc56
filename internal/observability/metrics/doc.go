// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Template helper metrics (calls by outcome, latency)
//   - Database connection pool gauges
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "inkwell/internal/observability/metrics"
//
//	func topArticles() {
//	    start := time.Now()
//	    articles, err := svc.Top(ctx, 365, 10)
//	    metrics.RecordHelperCall("get_top_articles", err, time.Since(start))
//	}
package metrics
