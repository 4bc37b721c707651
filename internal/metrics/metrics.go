// Package metrics holds the Prometheus collectors shared by the feed
// pipeline, the upstream client and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "podhub"

// Ingestion results
const (
	ResultOK          = "ok"
	ResultMalformed   = "malformed"
	ResultUnavailable = "unavailable"
)

var (
	FeedIngestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_ingestions_total",
		Help:      "Feed ingestions by result",
	}, []string{"result"})

	FeedIngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_ingest_duration_seconds",
		Help:      "Time spent fetching and normalizing a single feed",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms .. ~10s
	})

	EpisodesNormalized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "episodes_normalized_total",
		Help:      "Episodes produced by the normalizer",
	})

	EpisodeFieldFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "episode_field_fallbacks_total",
		Help:      "Episode fields that fell back to their default value",
	}, []string{"field"})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests sent to the content API by endpoint and status code",
	}, []string{"endpoint", "code"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests to the content API",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_cache_lookups_total",
		Help:      "Feed document cache lookups by outcome",
	}, []string{"outcome"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served by route and status code",
	}, []string{"method", "route", "code"})
)
