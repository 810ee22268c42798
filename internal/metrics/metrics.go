// Package metrics holds Prometheus instruments used across the platform.
// All collectors are registered with the global registry, so importing
// this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HostResolveTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "host_resolve_total",
			Help: "Cumulative number of host resolution lookups.",
		})

	HostResolveMissTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "host_resolve_miss_total",
			Help: "Cumulative number of host lookups matching no website.",
		})

	ResolverCacheHitTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_cache_hit_total",
			Help: "Cumulative number of fresh resolver cache hits.",
		})

	ResolverLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_load_total",
			Help: "Cumulative number of resolver cache fills.",
		})

	ResolverEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_evict_total",
			Help: "Cumulative number of resolver cache evictions.",
		})

	ActiveResolverEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_resolver_entries",
			Help: "Number of hosts currently held in the resolver cache.",
		})

	SelectionRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "selection_rejected_total",
			Help: "Cumulative number of website selections discarded for failing tenant-ownership validation.",
		})

	UnauthenticatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unauthenticated_total",
			Help: "Cumulative number of protected requests rejected for missing or invalid sessions.",
		})
)

func init() {
	prometheus.MustRegister(
		HostResolveTotal,
		HostResolveMissTotal,
		ResolverCacheHitTotal,
		ResolverLoadTotal,
		ResolverEvictTotal,
		ActiveResolverEntries,
		SelectionRejectedTotal,
		UnauthenticatedTotal,
	)
}
