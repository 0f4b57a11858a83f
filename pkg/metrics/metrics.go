// Package metrics holds the process-wide prometheus collectors. They are
// exposed on /metrics by the api server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidtube_view_build_seconds",
		Help:    "Time spent building a derived view",
		Buckets: prometheus.DefBuckets,
	}, []string{"view", "status"})

	reactionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_reactions_applied_total",
		Help: "The total number of reaction toggles by target kind and outcome",
	}, []string{"target", "outcome"})

	reactionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidtube_reaction_conflicts_total",
		Help: "Reaction inserts that lost a uniqueness race and were retried",
	})
)

// ObserveView records the latency of one view build started at begin.
func ObserveView(view string, begin time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	viewDuration.WithLabelValues(view, status).Observe(time.Since(begin).Seconds())
}

func ReactionApplied(target, outcome string) {
	reactionsApplied.WithLabelValues(target, outcome).Inc()
}

func ReactionConflict() {
	reactionConflicts.Inc()
}
