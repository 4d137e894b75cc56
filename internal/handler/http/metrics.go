package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/responsewriter"
	"inkwell/internal/observability/metrics"
)

// MetricsMiddleware records request count, latency and response size per
// normalized path. 404s share one label so unknown URLs cannot grow the
// series count.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		path := pathutil.NormalizePath(r.URL.Path)
		if rw.StatusCode() == http.StatusNotFound {
			path = pathutil.Unmatched
		}
		metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rw.StatusCode()), duration, rw.BytesWritten())
	})
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
