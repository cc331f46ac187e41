package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metrics are process-global, so the assertions compare deltas rather than
// absolute values.
func verdictCounts(t *testing.T) map[string]interface{} {
	t.Helper()
	v, ok := GetMetrics()["verdicts"].(map[string]interface{})
	require.True(t, ok, "verdicts section missing from metrics")
	return v
}

func TestRecordVerdictTalliesPerOutcome(t *testing.T) {
	before := verdictCounts(t)

	RecordVerdict("AUTHENTIC")
	RecordVerdict("NON_AUTHENTIC")
	RecordVerdict("NON_AUTHENTIC")
	RecordVerdict("SUSPICIOUS")

	after := verdictCounts(t)
	assert.Equal(t, before["authentic"].(uint64)+1, after["authentic"])
	assert.Equal(t, before["suspicious"].(uint64)+1, after["suspicious"])
	assert.Equal(t, before["non_authentic"].(uint64)+2, after["non_authentic"])
}

func TestRecordVerdictIgnoresUnknownResult(t *testing.T) {
	before := verdictCounts(t)
	RecordVerdict("SOMETHING_ELSE")
	assert.Equal(t, before, verdictCounts(t))
}

func TestMetricsMiddlewareCountsOutcomes(t *testing.T) {
	beforeOK := GetMetrics()["requests_success"].(uint64)
	beforeFail := GetMetrics()["requests_failed"].(uint64)

	ok := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	bad := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	bad.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, beforeOK+1, GetMetrics()["requests_success"].(uint64))
	assert.Equal(t, beforeFail+1, GetMetrics()["requests_failed"].(uint64))
}
