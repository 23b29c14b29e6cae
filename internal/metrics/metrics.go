package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultApplied = "applied"
	ResultNoop    = "noop"
	ResultError   = "error"
	ResultOK      = "ok"

	StageRaw         = "raw"
	StagePlaceholder = "placeholder"
)

var (
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_mutations_total",
		Help: "Feed mutations by operation and result",
	}, []string{"op", "result"})

	ProjectionFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_projection_fallbacks_total",
		Help: "Projections that fell back to the raw list or to the error placeholder",
	}, []string{"stage"})

	MirrorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_mirror_calls_total",
		Help: "Remote mirror calls by operation and result",
	}, []string{"op", "result"})

	DroppedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_dropped_records_total",
		Help: "Stored post records dropped on load for missing required fields",
	})
)
