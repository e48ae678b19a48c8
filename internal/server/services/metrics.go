package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// fileOperationsTotal counts orchestrator calls by operation and outcome.
	fileOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophdrive_file_operations_total",
		Help: "File operations by type and result",
	}, []string{"operation", "result"})

	uploadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gophdrive_uploaded_bytes_total",
		Help: "Bytes durably written by uploads",
	})

	// reconcilePrunedTotal counts metadata rows removed because their bytes were gone.
	reconcilePrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gophdrive_reconcile_pruned_total",
		Help: "Metadata rows pruned because the stored file was missing",
	})

	authAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gophdrive_auth_attempts_total",
		Help: "Registration and login attempts by result",
	}, []string{"operation", "result"})
)

// result labels an operation outcome for metrics.
func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
