package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UsersRegistered counts successful registrations.
	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_users_registered_total",
		Help: "Total number of registered users",
	})

	// SkillsCreated counts skills added to the catalogue.
	SkillsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_skills_created_total",
		Help: "Total number of skills created",
	})

	// SwapsProposed counts swap proposals.
	SwapsProposed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_swaps_proposed_total",
		Help: "Total number of swaps proposed",
	})

	// SwapResponses counts swap responses by the status written and the status replaced.
	SwapResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_responses_total",
		Help: "Total number of swap responses",
	}, []string{"status", "previous"})

	// CacheLookups counts cache-aside lookups by keyspace and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_cache_lookups_total",
		Help: "Total number of cache lookups by keyspace and result",
	}, []string{"keyspace", "result"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillswap_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
