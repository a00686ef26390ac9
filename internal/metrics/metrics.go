package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Auth flow metrics

	RegistrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jenkify",
		Name:      "registrations_total",
		Help:      "Registration attempts, by outcome.",
	}, []string{"outcome"})

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jenkify",
		Name:      "logins_total",
		Help:      "Login attempts, by method and outcome.",
	}, []string{"method", "outcome"})

	PasswordResetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jenkify",
		Name:      "password_resets_total",
		Help:      "Password reset requests and confirmations, by stage and outcome.",
	}, []string{"stage", "outcome"})

	TokenHoldsPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jenkify",
		Name:      "token_holds_placed_total",
		Help:      "Token holds created after OAuth redirects.",
	})

	TokenHoldsClaimedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jenkify",
		Name:      "token_holds_claimed_total",
		Help:      "Token hold retrieval attempts, by outcome.",
	}, []string{"outcome"})

	// Maintenance metrics

	TokensPrunedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jenkify",
		Name:      "tokens_pruned_total",
		Help:      "Expired or consumed token rows removed by the sweeper.",
	}, []string{"family"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jenkify",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jenkify",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		RegistrationsTotal,
		LoginsTotal,
		PasswordResetsTotal,
		TokenHoldsPlacedTotal,
		TokenHoldsClaimedTotal,
		TokensPrunedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
