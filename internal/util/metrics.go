package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sessions_created_total",
		Help: "Total number of storefront sessions created",
	})

	CatalogFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetches_total",
		Help: "Total number of catalog fetches",
	}, []string{"result"})

	CatalogStaleDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_stale_responses_dropped_total",
		Help: "Total number of catalog responses discarded because a newer fetch was issued",
	})

	CatalogFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_fetch_latency_seconds",
		Help:    "Latency of catalog fetches",
		Buckets: prometheus.DefBuckets,
	})

	CatalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of catalog reads served from the Redis cache",
	})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart operations",
	}, []string{"op"})

	CartOperationsIgnoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_ignored_total",
		Help: "Total number of cart operations ignored for violating a precondition",
	}, []string{"reason"})

	WishlistTogglesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wishlist_toggles_total",
		Help: "Total number of wishlist toggles",
	})

	CheckoutsInitiatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_initiated_total",
		Help: "Total number of checkout handoffs initiated",
	})

	CheckoutsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_completed_total",
		Help: "Total number of checkouts confirmed by the checkout collaborator",
	})

	CheckoutsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of checkouts rejected by the checkout collaborator",
	})

	ImageProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "image_probes_total",
		Help: "Total number of product image probes",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
