package metrics

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordHelperCall records one template helper invocation.
func RecordHelperCall(helper string, err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	HelperCallsTotal.WithLabelValues(helper, status).Inc()
	HelperDuration.WithLabelValues(helper).Observe(duration.Seconds())
}

// RecordPageRender records the outcome of rendering a page template.
func RecordPageRender(template string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	PageRendersTotal.WithLabelValues(template, status).Inc()
}
