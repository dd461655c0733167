package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	verdictLabels = []string{"verdict", "security_level"}

	// Latency buckets in milliseconds. Classifier and responder calls sit
	// behind model inference, so the upper buckets reach timeout range.
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	CheckRequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "firewall_check_requests_total",
			Help: "Total number of input checks processed",
		},
		verdictLabels,
	)

	CheckRequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "firewall_check_latency_ms",
			Help:    "Input check latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"stage"}, // validate, score, respond, total
	)

	ClassifierFailureTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "firewall_classifier_failures_total",
			Help: "Classifier outages degraded to fail-closed blocks",
		},
	)

	ResponderFailureTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "firewall_responder_failures_total",
			Help: "Responder outages degraded to empty responses",
		},
	)

	RuleBlockTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "firewall_rule_blocks_total",
			Help: "Inputs blocked by rule-based pre-checks",
		},
		[]string{"rule"},
	)

	ScoreCacheHitTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "firewall_score_cache_hits_total",
			Help: "Classification results served from the score cache",
		},
	)

	InvalidInputTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "firewall_invalid_input_total",
			Help: "Requests rejected before scoring",
		},
	)
)

func Initialize() {
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
