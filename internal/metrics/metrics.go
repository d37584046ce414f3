package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PartsInspectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qc_parts_inspected_total",
		Help: "Total number of parts submitted to the quality gate, by verdict.",
	},
		[]string{"verdict"},
	)

	PartsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qc_parts_removed_total",
		Help: "Total number of parts explicitly removed from the ledger.",
	})

	ContainersClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qc_containers_closed_total",
		Help: "Total number of containers closed at capacity.",
	})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qc_auth_attempts_total",
		Help: "Total number of authentication attempts, by result.",
	},
		[]string{"result"},
	)

	AccessDeniedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qc_access_denied_total",
		Help: "Total number of authorization failures.",
	})

	BackupRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qc_backup_runs_total",
		Help: "Total number of completed scheduled backup cycles.",
	})

	CurrentContainerFill = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "qc_current_container_parts",
		Help: "Current number of parts in the open container.",
	})
)
