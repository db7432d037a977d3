package metrics

import "strconv"

// ObserveHandler counts one envelope produced by the named handler.
func ObserveHandler(handler string, code int) {
	totalHandlerResponses.WithLabelValues(handler, strconv.Itoa(code)).Inc()
}

// ObserveUnresolved counts a request no handler could resolve.
func ObserveUnresolved() { totalUnresolvedRequests.Inc() }

// ObservePanic counts a recovered handler panic.
func ObservePanic(handler string) { totalRecoveredPanics.WithLabelValues(handler).Inc() }
