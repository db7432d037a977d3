package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/middleware"
)

// Collect produces the HTTP middleware that records the counters/histogram.
// Options are bound to the returned middleware only.
func Collect(opts ...Option) func(next http.Handler) http.Handler {
	cfg := newCollectConfig(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()

			defer func() {
				if cfg.isSkipPath(r) {
					return
				}

				endTime := time.Since(startTime)

				code := strconv.Itoa(ww.Status())
				uri := cfg.normalize(r) // path only; avoid cardinality explosion
				method := r.Method

				totalHttpRequestsToUri.WithLabelValues(code, uri, method).Inc()
				totalHttpRequests.WithLabelValues(code, method).Inc()
				responseTime.Observe(endTime.Seconds())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
