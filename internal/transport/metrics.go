package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricDecode = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transport_frames_total",
		Help: "Inbound frames by decoded kind (including unparseable)",
	}, []string{"kind"})

	gaugeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transport_connections_active",
		Help: "Live session transport connections",
	})
)
