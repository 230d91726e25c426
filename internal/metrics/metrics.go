package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_assistant_turns_total",
			Help: "Total number of processed assistant turns by classified intent.",
		},
		[]string{"intent"},
	)

	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_provider_requests_total",
			Help: "Total number of content provider lookups by outcome.",
		},
		[]string{"provider", "outcome"},
	)

	AudioCachePuts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aura_audio_cache_puts_total",
			Help: "Total number of synthesized audio payloads cached.",
		},
	)

	AudioCacheTakes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_audio_cache_takes_total",
			Help: "Total number of single-use audio retrievals by outcome.",
		},
		[]string{"outcome"},
	)

	ConversationsSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aura_conversations_swept_total",
			Help: "Total number of conversations deleted by the retention sweeper.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		TurnsTotal,
		ProviderRequestsTotal,
		AudioCachePuts,
		AudioCacheTakes,
		ConversationsSweptTotal,
	)
}
