// Package metrics exposes OTP and registration counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service layer reports to.
type Recorder interface {
	RecordOTPIssued(channel string)
	RecordOTPRejected(channel, reason string)
	RecordVerify(result string)
	RecordRegistrationSaved(kind string)
}

type Collector struct {
	otpIssued         *prometheus.CounterVec
	otpRejected       *prometheus.CounterVec
	otpVerify         *prometheus.CounterVec
	registrationSaved *prometheus.CounterVec
}

// NewCollector creates the counters and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		otpIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otp_issued_total",
			Help: "OTP codes issued and dispatched, by channel.",
		}, []string{"channel"}),
		otpRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otp_issue_rejected_total",
			Help: "OTP issue requests rejected, by channel and reason.",
		}, []string{"channel", "reason"}),
		otpVerify: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otp_verify_total",
			Help: "Dual-channel verification attempts, by result.",
		}, []string{"result"}),
		registrationSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_saved_total",
			Help: "Registration records written, by kind (draft or final).",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.otpIssued,
		c.otpRejected,
		c.otpVerify,
		c.registrationSaved,
	)

	return c
}

func (c *Collector) RecordOTPIssued(channel string) {
	c.otpIssued.WithLabelValues(channel).Inc()
}

func (c *Collector) RecordOTPRejected(channel, reason string) {
	c.otpRejected.WithLabelValues(channel, reason).Inc()
}

func (c *Collector) RecordVerify(result string) {
	c.otpVerify.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRegistrationSaved(kind string) {
	c.registrationSaved.WithLabelValues(kind).Inc()
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordOTPIssued(string) {}
func (Nop) RecordOTPRejected(string, string) {}
func (Nop) RecordVerify(string) {}
func (Nop) RecordRegistrationSaved(string) {}
