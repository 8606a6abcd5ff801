package middleware

import (
	"net/http"
	"time"
)

type httpObserver interface {
	ObserveHTTPRequest(route, method string, code int, duration time.Duration)
}

// Metrics records request counts and latency keyed by the chi route pattern
// so path parameters do not explode label cardinality.
func Metrics(observer httpObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			observer.ObserveHTTPRequest(routePattern(r), r.Method, rec.statusOrOK(), time.Since(start))
		})
	}
}
