// Package metrics registers the Prometheus metrics used by the avatar
// service. Import it from any package that records metrics; the /metrics
// handler of cmd/avatarsd exposes the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcomes.
const (
	OutcomeResolved = "resolved"
	OutcomeAbsent   = "absent"
)

// Resolution kinds.
const (
	KindAvatar = "avatar"
	KindChange = "change"
)

// Account lookup results.
const (
	LookupHit      = "hit"
	LookupMiss     = "miss"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

var (
	// Resolutions counts avatar URL resolutions labelled by the provider
	// that answered (empty when none did), the kind of URL ("avatar",
	// "change") and the outcome ("resolved", "absent").
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avatars_resolutions_total",
			Help: "Total number of avatar URL resolutions.",
		},
		[]string{"provider", "kind", "outcome"},
	)

	// HTTPRequests counts HTTP requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avatars_http_requests_total",
			Help: "Total HTTP requests served by the avatar service.",
		},
		[]string{"route", "status"},
	)

	// AccountLookups counts account directory lookups through the cache
	// ("hit", "miss", "not_found", "error").
	AccountLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avatars_account_lookups_total",
			Help: "Total account directory lookups by result.",
		},
		[]string{"result"},
	)

	// RateLimitClients is the number of clients with a token bucket.
	RateLimitClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "avatars_rate_limit_clients",
			Help: "Number of clients tracked by the rate limiter.",
		},
	)

	// RateLimitRejections counts requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "avatars_rate_limit_rejections_total",
			Help: "Total requests rejected by rate limiting.",
		},
	)
)
