package cacheinfra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks store hits by backend (memory, redis).
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queryset_cache_hits_total",
			Help: "Total number of query cache store hits",
		},
		[]string{"backend"},
	)

	// cacheMisses tracks store misses by backend.
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queryset_cache_misses_total",
			Help: "Total number of query cache store misses",
		},
		[]string{"backend"},
	)

	// cacheErrors tracks store operation errors by backend and operation.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queryset_cache_errors_total",
			Help: "Total number of query cache store operation errors",
		},
		[]string{"backend", "operation"},
	)
)
