package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Expense write path
	ExpenseMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_mutations_total",
			Help: "Successful expense mutations",
		},
		[]string{"op"}, // create|update|delete
	)
	ExpenditureDivergence = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_expenditure_divergence_total",
			Help: "Times a budget's expenditure was found or left out of step with its expenses",
		},
		[]string{"source"}, // partial_write|repair
	)

	// Alerts & feed
	AlertTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_transitions_total",
			Help: "Alert status changes made by the evaluator",
		},
		[]string{"to"}, // TRIGGERED|ACTIVE
	)
	NotificationsAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_appended_total",
			Help: "Notifications appended to user feeds",
		},
		[]string{"kind"}, // alert|overrun
	)

	// Worker kuyruğu
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(ExpenseMutations)
		prometheus.MustRegister(ExpenditureDivergence)
		prometheus.MustRegister(AlertTransitions)
		prometheus.MustRegister(NotificationsAppended)
		prometheus.MustRegister(WorkerQueueDepth)
	})
}
