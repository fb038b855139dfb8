package echofilter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echo_rejections_total",
		Help: "Utterances rejected by the echo filter, by reason",
	}, []string{"reason"}) // echo, duplicate

	// Distance between the expected question and a rejected utterance.
	// Large values near the rejection boundary indicate the containment
	// policy discarding genuine answers that restate the question.
	metricEchoDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "echo_rejection_levenshtein",
		Help:    "Levenshtein distance between expected text and echo-rejected utterance",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)
