package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "loan_dashboard",
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of calls to the prediction service in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{"operation", "status"},
)

var upstreamErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "loan_dashboard",
		Name:      "upstream_errors_total",
		Help:      "Failed calls to the prediction service by kind",
	},
	[]string{"operation", "kind"},
)

// Error kinds recorded in upstreamErrors.
const (
	errKindTransport = "transport"
	errKindStatus    = "status"
	errKindDecode    = "decode"
)
