package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PolicyQueries     prometheus.Counter
	WorkflowActions   *prometheus.CounterVec
	GovernanceActions *prometheus.CounterVec
	Logins            prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		PolicyQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peopledesk_policy_queries_total",
			Help: "Total number of policy questions answered",
		}),
		WorkflowActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "peopledesk_workflow_actions_total",
			Help: "Total number of workflow transitions by action",
		}, []string{"action"}),
		GovernanceActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "peopledesk_governance_actions_total",
			Help: "Total number of governance actions by kind",
		}, []string{"action"}),
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "peopledesk_logins_total",
			Help: "Total number of successful logins",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "peopledesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
}

// IncWorkflowAction increments the workflow action counter for the action.
func (m *Metrics) IncWorkflowAction(action string) {
	if m == nil {
		return
	}
	m.WorkflowActions.WithLabelValues(action).Inc()
}

// IncGovernanceAction increments the governance action counter for the kind.
func (m *Metrics) IncGovernanceAction(action string) {
	if m == nil {
		return
	}
	m.GovernanceActions.WithLabelValues(action).Inc()
}
