// Package metrics exposes Prometheus metrics for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sign-in outcomes.
const (
	SignInSucceeded = "succeeded"
	SignInInvalid   = "invalid_request"
	SignInRejected  = "rejected"
	SignInFailed    = "failed"
)

// Current-user lookup outcomes.
const (
	WhoAmIAuthenticated = "authenticated"
	WhoAmIAnonymous     = "anonymous"
	WhoAmIFailed        = "failed"
)

// Recorder is what handlers and middleware report to.
type Recorder interface {
	RecordSignIn(result string)
	RecordWhoAmI(result string)
	RecordHTTPRequest(route, method string, status int, duration time.Duration)
}

// Collector records gateway metrics in a Prometheus registry.
type Collector struct {
	signIns         *prometheus.CounterVec
	whoAmIs         *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blob",
			Subsystem: "auth",
			Name:      "google_sign_ins_total",
			Help:      "Google sign-in attempts by result.",
		}, []string{"result"}),
		whoAmIs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blob",
			Subsystem: "auth",
			Name:      "me_requests_total",
			Help:      "Current user lookups by result.",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blob",
			Subsystem: "gateway",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	reg.MustRegister(c.signIns, c.whoAmIs, c.requestDuration)

	return c
}

func (c *Collector) RecordSignIn(result string) {
	c.signIns.WithLabelValues(result).Inc()
}

func (c *Collector) RecordWhoAmI(result string) {
	c.whoAmIs.WithLabelValues(result).Inc()
}

func (c *Collector) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	c.requestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// Handler serves the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
