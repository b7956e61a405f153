package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for the API
type Registry struct {
	reg *prometheus.Registry

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business
	MembershipRenewals  prometheus.Counter
	MembersExpired      prometheus.Counter
	EventRegistrations  *prometheus.CounterVec
	PaymentsCreated     *prometheus.CounterVec
	FilesUploaded       *prometheus.CounterVec
	ExpirySweepDuration prometheus.Histogram
}

// NewRegistry builds a fresh registry. Each call gets its own
// prometheus.Registry so tests can build as many apps as they like.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memberhub_http_requests_total",
				Help: "Total HTTP requests processed by route, method, and status code",
			},
			[]string{"route", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "memberhub_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "memberhub_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		MembershipRenewals: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "memberhub_membership_renewals_total",
				Help: "Total membership renewals recorded",
			},
		),
		MembersExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "memberhub_members_expired_total",
				Help: "Total members transitioned to Expired by the sweep",
			},
		),
		EventRegistrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memberhub_event_registrations_total",
				Help: "Event registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		PaymentsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memberhub_payments_created_total",
				Help: "Payments created by payment type",
			},
			[]string{"payment_type"},
		),
		FilesUploaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memberhub_files_uploaded_total",
				Help: "Files stored in object storage by folder",
			},
			[]string{"folder"},
		),
		ExpirySweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "memberhub_expiry_sweep_duration_seconds",
				Help:    "Duration of the membership expiry sweep",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
		),
	}
}

// Gatherer exposes the underlying registry to the /metrics handler
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
