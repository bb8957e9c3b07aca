package analytics

import "time"

// EventType enumerates what the append-only event log records. The log is
// the source of truth for KPIs and subject-access views.
type EventType string

const (
	EventTypeQuery            EventType = "QUERY"
	EventTypeFeedback         EventType = "FEEDBACK"
	EventTypeWorkflowAction   EventType = "WORKFLOW_ACTION"
	EventTypeGovernanceAction EventType = "GOVERNANCE_ACTION"
	EventTypeAuthLogin        EventType = "AUTH_LOGIN"
)

// Event is emitted from domain logic to capture key actions. Details must be
// redacted of direct personal identifiers beyond the actor ID before the
// event reaches the log.
type Event struct {
	ID        string            `json:"event_id"`
	Timestamp time.Time         `json:"timestamp"`
	ActorID   string            `json:"actor_id"`
	ActorRole string            `json:"actor_role"`
	Type      EventType         `json:"event_type"`
	Automated bool              `json:"automated,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// UsageMetrics counts policy assistant usage.
type UsageMetrics struct {
	TotalQueries  int            `json:"total_policy_queries"`
	UniqueUsers   int            `json:"unique_users"`
	QueriesByRole map[string]int `json:"queries_by_role"`
}

// AccuracyMetrics summarizes answer feedback. AccuracyRate is 0 when there
// are no samples.
type AccuracyMetrics struct {
	FeedbackSamples int     `json:"feedback_samples"`
	AccuracyRate    float64 `json:"accuracy_rate"`
}

// AutomationMetrics classifies workflow actions. A transition counts as
// automated when it required no free-text decision input; AutomationRate is
// 0 when there are no actions.
type AutomationMetrics struct {
	TotalWorkflowActions int     `json:"total_workflow_actions"`
	AutomatedActions     int     `json:"automated_actions"`
	AutomationRate       float64 `json:"automation_rate"`
}

// KPIReport is the derived view the analytics endpoints serve.
type KPIReport struct {
	Usage      UsageMetrics      `json:"usage"`
	Accuracy   AccuracyMetrics   `json:"response_accuracy"`
	Automation AutomationMetrics `json:"automation"`
}
