package session

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelbridge",
			Subsystem: "session",
			Name:      "loads_total",
			Help:      "Total model load attempts by result",
		},
		[]string{"result"},
	)

	unloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "modelbridge",
			Subsystem: "session",
			Name:      "unloads_total",
			Help:      "Total model handles released",
		},
	)

	embeddingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelbridge",
			Subsystem: "session",
			Name:      "embeddings_total",
			Help:      "Total embedding requests by result",
		},
		[]string{"result"},
	)

	modelLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "modelbridge",
			Subsystem: "session",
			Name:      "model_loaded",
			Help:      "1 when a model handle is resident, else 0",
		},
	)

	handleBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "modelbridge",
			Subsystem: "session",
			Name:      "handle_bytes",
			Help:      "Bytes held by the resident model handle",
		},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, unloadsTotal, embeddingsTotal, modelLoaded, handleBytes)
}

// resultLabel collapses an error into a low-cardinality label value.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if k := KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
