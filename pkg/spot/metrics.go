package spot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsspot_api_requests_total",
		Help: "API requests issued, by method and response status.",
	}, []string{"method", "status"})

	apiRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rsspot_api_request_duration_seconds",
		Help:    "API request round-trip latency.",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsspot_api_cache_hits_total",
		Help: "GET responses served from the local state cache.",
	})
)
