package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOTPIssued("email")
	c.RecordOTPIssued("email")
	c.RecordOTPRejected("mobile", "throttled")
	c.RecordVerify("success")
	c.RecordRegistrationSaved("draft")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.otpIssued.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.otpRejected.WithLabelValues("mobile", "throttled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.otpVerify.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.registrationSaved.WithLabelValues("draft")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).RecordVerify("not_found")

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `otp_verify_total{result="not_found"} 1`))
}

func TestNop_SatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordOTPIssued("email")
}
