package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Restore outcomes recorded on exlog_restore_total.
const (
	OutcomeEmpty    = "empty"
	OutcomeRestored = "restored"
	OutcomeCorrupt  = "corrupt"
)

var (
	IntakeCommitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exlog_intake_committed_total",
		Help: "Exercise submissions that were validated and persisted.",
	}, []string{"kind"})

	IntakeRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exlog_intake_rejected_total",
		Help: "Exercise submissions rejected by validation.",
	}, []string{"kind"})

	Selections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exlog_selections_total",
		Help: "Recorded list selections.",
	})

	Restores = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "exlog_restore_total",
		Help: "Startup restores by outcome (" + OutcomeEmpty + ", " + OutcomeRestored + ", " + OutcomeCorrupt + ").",
	}, []string{"outcome"})

	SnapshotBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "exlog_snapshot_bytes",
		Help: "Size of the last snapshot written to the store.",
	})
)

func init() {
	prometheus.MustRegister(IntakeCommitted, IntakeRejected, Selections, Restores, SnapshotBytes)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
