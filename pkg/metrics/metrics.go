package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scan_tool_runs_total",
			Help: "Total number of analyzer runs within scans.",
		},
		[]string{"tool", "outcome"}, // outcome: ok, failed, panic
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scan_tool_duration_seconds",
			Help:    "Duration of individual analyzer runs.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tool"},
	)

	LinkProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_probes_total",
			Help: "Total number of hyperlink probes.",
		},
		[]string{"result"}, // result: working, broken
	)

	WhoisLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whois_lookups_total",
			Help: "WHOIS lookups by the source that answered.",
		},
		[]string{"source"}, // source: whois, rdap, none
	)
)
