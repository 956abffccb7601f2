// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the brandsmith gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// GenerationBuckets defines histogram buckets suited for generation
// latencies, ranging from 100ms to 120s.
var GenerationBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// ScoreBuckets covers the 1..10 quality score range.
var ScoreBuckets = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandsmith_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brandsmith_request_duration_seconds",
			Help:    "Request duration",
			Buckets: GenerationBuckets,
		},
		[]string{"method"},
	)

	// InFlightGenerations tracks pipeline runs currently in progress.
	InFlightGenerations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "brandsmith_generations_in_flight",
			Help: "Generations in progress",
		},
	)

	// ProviderRequestsTotal counts calls sent to the generation provider.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandsmith_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "kind", "status"},
	)

	// ProviderLatency records provider call latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brandsmith_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: GenerationBuckets,
		},
		[]string{"provider", "kind"},
	)

	// ProviderTokensTotal counts text tokens by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandsmith_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "direction"},
	)

	// GenerationsTotal counts finished pipeline runs by outcome
	// (success or the error type).
	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandsmith_generations_total",
			Help: "Generations",
		},
		[]string{"asset_type", "outcome"},
	)

	// RegenerationsTotal counts quality-triggered regenerations.
	RegenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandsmith_regenerations_total",
			Help: "Quality-triggered regenerations",
		},
		[]string{"asset_type"},
	)

	// QualityScore records assessment scores by verdict source.
	QualityScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brandsmith_quality_score",
			Help:    "Quality assessment scores",
			Buckets: ScoreBuckets,
		},
		[]string{"asset_type", "source"},
	)

	// EnhancementsTotal counts brief enhancement results
	// (enhanced, fallback, unavailable).
	EnhancementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brandsmith_enhancements_total",
			Help: "Brief enhancements",
		},
		[]string{"asset_type", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		InFlightGenerations,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		GenerationsTotal,
		RegenerationsTotal,
		QualityScore,
		EnhancementsTotal,
	)
}
