package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHelperCall(t *testing.T) {
	before := testutil.ToFloat64(HelperCallsTotal.WithLabelValues("archives", StatusSuccess))
	beforeErr := testutil.ToFloat64(HelperCallsTotal.WithLabelValues("archives", StatusError))

	RecordHelperCall("archives", nil, 3*time.Millisecond)
	RecordHelperCall("archives", errors.New("boom"), time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(HelperCallsTotal.WithLabelValues("archives", StatusSuccess)))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(HelperCallsTotal.WithLabelValues("archives", StatusError)))

	metric := &io_prometheus_client.Metric{}
	hist, ok := HelperDuration.WithLabelValues("archives").(interface {
		Write(*io_prometheus_client.Metric) error
	})
	require.True(t, ok)
	require.NoError(t, hist.Write(metric))
	assert.GreaterOrEqual(t, metric.GetHistogram().GetSampleCount(), uint64(2))
}

func TestRecordPageRender(t *testing.T) {
	before := testutil.ToFloat64(PageRendersTotal.WithLabelValues("index", StatusError))
	RecordPageRender("index", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(PageRendersTotal.WithLabelValues("index", StatusError)))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/", "200"))
	RecordHTTPRequest("GET", "/", "200", 10*time.Millisecond, 512)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/", "200")))
}

func TestUpdateDBStats(t *testing.T) {
	UpdateDBStats(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3})

	assert.Equal(t, 5.0, testutil.ToFloat64(DBConnectionsOpen))
	assert.Equal(t, 2.0, testutil.ToFloat64(DBConnectionsInUse))
	assert.Equal(t, 3.0, testutil.ToFloat64(DBConnectionsIdle))
}
