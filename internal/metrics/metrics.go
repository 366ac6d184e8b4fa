package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Token metrics

	TokensIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "easeup",
		Name:      "tokens_issued_total",
		Help:      "Total signed tokens issued, by purpose.",
	}, []string{"purpose"})

	TokenValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "easeup",
		Name:      "token_validations_total",
		Help:      "Total token validations, by outcome.",
	}, []string{"outcome"})

	RevokedTokens = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "easeup",
		Name:      "revoked_tokens",
		Help:      "Current size of the in-memory token revocation set.",
	})

	// Email metrics

	EmailsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "easeup",
		Name:      "emails_sent_total",
		Help:      "Total transactional emails sent, by kind and outcome.",
	}, []string{"kind", "outcome"})

	// Rate limiter metrics

	RateLimitDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "easeup",
		Name:      "ratelimit_decisions_total",
		Help:      "Rate limiter admissions and denials, by limiter and decision.",
	}, []string{"limiter", "decision"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "easeup",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "easeup",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		TokensIssuedTotal,
		TokenValidationsTotal,
		RevokedTokens,
		EmailsSentTotal,
		RateLimitDecisionsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux}
}
