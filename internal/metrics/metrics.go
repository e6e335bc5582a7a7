package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farway_logins_total",
		Help: "Total number of successful logins",
	})
	loginFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farway_login_failures_total",
		Help: "Total number of rejected login attempts",
	})
	scansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farway_scans_total",
		Help: "Total number of scan runs completed",
	})
	threatsDetectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "farway_threats_detected_total",
		Help: "Total number of threats flagged across all scans",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(loginsTotal, loginFailuresTotal, scansTotal, threatsDetectedTotal)
}

// IncLogin increments the successful logins counter.
func IncLogin() { loginsTotal.Inc() }

// IncLoginFailure increments the rejected logins counter.
func IncLoginFailure() { loginFailuresTotal.Inc() }

// IncScan increments the completed scans counter.
func IncScan() { scansTotal.Inc() }

// AddThreatsDetected adds n to the detected threats counter.
func AddThreatsDetected(n int) { threatsDetectedTotal.Add(float64(n)) }
