package speech

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricUtterances = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_utterances_total",
		Help: "Agent utterances by outcome (completed, cancelled, error)",
	}, []string{"outcome"})

	metricSpeakDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "speech_utterance_ms",
		Help:    "Duration of completed agent utterances (ms)",
		Buckets: prometheus.ExponentialBuckets(100, 1.6, 10),
	})

	metricFirstAudio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "speech_first_audio_ms",
		Help:    "Latency from synthesis start to first audio chunk (ms)",
		Buckets: prometheus.ExponentialBuckets(50, 1.6, 10),
	})
)
