package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OpEncode = "encode"
	OpDecode = "decode"
)

var (
	// unit is seconds
	BatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geohash_batch_duration_seconds",
		Help:    "batch conversion latency",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"operation"})

	BatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geohash_batch_size",
		Help:    "number of elements per batch conversion",
		Buckets: prometheus.ExponentialBuckets(1, 10, 8),
	}, []string{"operation"})

	ConversionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geohash_conversion_errors_total",
		Help: "failed conversions by error code",
	}, []string{"operation", "code"})

	PoolThreads = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "geohash_pool_threads",
		Help: "worker goroutines used by the last batch call",
	}, []string{"operation"})
)
