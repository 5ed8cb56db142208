// Package metrics defines the prometheus collectors for the resilience
// layer, served by the health server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallsTotal tracks processed call outcomes per tool and result
	CallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nsip_calls_total",
			Help: "Total number of wrapped API call outcomes processed",
		},
		[]string{"tool", "result"},
	)

	// FailuresTotal tracks classified failures per tool and failure kind
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nsip_failures_total",
			Help: "Total number of failures by classification kind",
		},
		[]string{"tool", "kind"},
	)

	// RetryAttemptsTotal tracks recorded retry attempts per tool
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nsip_retry_attempts_total",
			Help: "Total number of retry attempts recorded",
		},
		[]string{"tool"},
	)

	// FallbacksTotal tracks fallback lookups per tool and whether cached data was served
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nsip_fallbacks_total",
			Help: "Total number of fallback cache lookups",
		},
		[]string{"tool", "served"},
	)

	// AlertsTotal tracks emitted failure alerts
	AlertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nsip_alerts_total",
			Help: "Total number of failure alerts written",
		},
	)

	// CacheWritesTotal tracks write-through cache updates per tool
	CacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nsip_cache_writes_total",
			Help: "Total number of successful results written to the cache",
		},
		[]string{"tool"},
	)

	// CacheEntries reports the current number of cache entries
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nsip_cache_entries",
			Help: "Current number of cache entry files",
		},
	)
)
