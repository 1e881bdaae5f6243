// Package metrics holds the Prometheus collectors the service exports on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every collector.  Build one per registry with New.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AuthAttempts *prometheus.CounterVec // by subject kind and outcome

	CascadeDeletes *prometheus.CounterVec // by root kind
	CascadeRows    *prometheus.CounterVec // rows removed, by kind

	MediaOperations *prometheus.CounterVec // by operation and outcome
}

// New creates the collectors with the given name prefix and registers them
// on reg.
func New(reg prometheus.Registerer, prefix string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		AuthAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Token verifications by subject kind and outcome",
		}, []string{"kind", "outcome"}),
		CascadeDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_cascade_deletes_total",
			Help: "Committed cascading deletes by root entity kind",
		}, []string{"kind"}),
		CascadeRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_cascade_rows_removed_total",
			Help: "Rows removed by cascading deletes by entity kind",
		}, []string{"kind"}),
		MediaOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_media_operations_total",
			Help: "Media store calls by operation and outcome",
		}, []string{"op", "outcome"}),
	}
	reg.MustRegister(m.HTTPRequestsTotal, m.HTTPRequestDuration, m.AuthAttempts,
		m.CascadeDeletes, m.CascadeRows, m.MediaOperations)
	return m
}

// Outcome labels.
const (
	OK   = "ok"
	Fail = "error"
)

// Outcome maps an error onto the outcome label.
func Outcome(err error) string {
	if err != nil {
		return Fail
	}
	return OK
}
