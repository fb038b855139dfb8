package turn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "turn_state_transitions_total",
		Help: "Turn controller state transitions by target state",
	}, []string{"to"})

	metricBargeIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "turn_barge_in_total",
		Help: "Agent utterances cancelled because the candidate started speaking",
	})

	metricAnswers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "turn_answers_accepted_total",
		Help: "Recognized utterances accepted as answers",
	})

	metricTransportFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "turn_transport_failures_total",
		Help: "Sessions ended by transport loss",
	})

	metricSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "turn_submissions_total",
		Help: "Interview submissions by outcome",
	}, []string{"outcome"})

	metricSubmitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "turn_submit_ms",
		Help:    "Latency of successful interview submission (ms)",
		Buckets: prometheus.ExponentialBuckets(50, 1.8, 10),
	})
)
