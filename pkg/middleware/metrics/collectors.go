package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	totalHandlerResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_handler_responses", Help: "envelopes returned by handler and code"},
		[]string{"handler", "code"},
	)

	totalUnresolvedRequests = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "total_unresolved_requests", Help: "requests with no matching handler"},
	)

	totalRecoveredPanics = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_recovered_panics", Help: "handler panics converted to 500"},
		[]string{"handler"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		totalHandlerResponses,
		totalUnresolvedRequests,
		totalRecoveredPanics,
	)
}
