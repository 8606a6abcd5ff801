package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Storefront records catalog, checkout, order and HTTP activity.
type Storefront struct {
	catalogQueries *prometheus.CounterVec
	catalogResults prometheus.Histogram
	promoAttempts  *prometheus.CounterVec
	checkouts      *prometheus.CounterVec
	checkoutTotal  prometheus.Counter
	transitions    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewStorefront registers the storefront collectors on reg. A nil registerer
// yields a no-op recorder.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	s := &Storefront{
		catalogQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "queries_total",
			Help:      "Catalog queries by sort key.",
		}, []string{"sort"}),
		catalogResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "query_matches",
			Help:      "Number of games matched per catalog query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		promoAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "promo_attempts_total",
			Help:      "Promo code attempts by result.",
		}, []string{"result"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "orders_total",
			Help:      "Orders placed by resulting status.",
		}, []string{"status"}),
		checkoutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "revenue_dollars_total",
			Help:      "Sum of placed order totals.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Admin order transitions by action and resulting status.",
		}, []string{"action", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(
		s.catalogQueries,
		s.catalogResults,
		s.promoAttempts,
		s.checkouts,
		s.checkoutTotal,
		s.transitions,
		s.httpRequests,
		s.httpDuration,
	)
	return s
}

func (s *Storefront) ObserveCatalogQuery(sort string, results int) {
	if s == nil || s.catalogQueries == nil {
		return
	}
	s.catalogQueries.WithLabelValues(normalizeLabel(sort)).Inc()
	s.catalogResults.Observe(float64(results))
}

func (s *Storefront) ObservePromoAttempt(result string) {
	if s == nil || s.promoAttempts == nil {
		return
	}
	s.promoAttempts.WithLabelValues(normalizeLabel(result)).Inc()
}

func (s *Storefront) ObserveCheckout(status string, total float64) {
	if s == nil || s.checkouts == nil {
		return
	}
	s.checkouts.WithLabelValues(normalizeLabel(status)).Inc()
	if total > 0 {
		s.checkoutTotal.Add(total)
	}
}

func (s *Storefront) ObserveOrderTransition(action string, to string) {
	if s == nil || s.transitions == nil {
		return
	}
	s.transitions.WithLabelValues(normalizeLabel(action), normalizeLabel(to)).Inc()
}

func (s *Storefront) ObserveHTTPRequest(route, method string, code int, duration time.Duration) {
	if s == nil || s.httpRequests == nil {
		return
	}
	route = normalizeLabel(route)
	s.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	s.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
