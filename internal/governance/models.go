package governance

import (
	"time"

	"peopledesk/internal/analytics"
	"peopledesk/internal/identity"
	"peopledesk/internal/policy"
	"peopledesk/internal/workflow"
)

// SubjectExport is the subject-access-request view: everything the service
// holds that references one subject.
type SubjectExport struct {
	User             identity.User              `json:"user_profile"`
	LeaveRequests    []workflow.LeaveRequest    `json:"leave_requests"`
	DocumentRequests []workflow.DocumentRequest `json:"document_requests"`
	OnboardingTasks  []workflow.OnboardingTask  `json:"onboarding_tasks"`
	Feedback         []policy.Feedback          `json:"feedback"`
	Events           []analytics.Event          `json:"events"`
	ExportedAt       time.Time                  `json:"exported_at"`
}

// ErasureResult reports what an erasure touched. Erasure is idempotent:
// AlreadyErased marks the no-op case.
type ErasureResult struct {
	UserID         string    `json:"user_id"`
	AnonymizedID   string    `json:"anonymized_id"`
	AlreadyErased  bool      `json:"already_erased"`
	RecordsUpdated int       `json:"records_updated"`
	ErasedAt       time.Time `json:"anonymized_at"`
}

// RetentionResult reports one retention cleanup run. Event removal is
// destructive: KPI history becomes partial past the cutoff.
type RetentionResult struct {
	RetentionDays   int `json:"retention_days"`
	RemovedEvents   int `json:"removed_events"`
	RedactedRecords int `json:"workflow_records_redacted"`
}

// ConsentUpdateInput sets a subject's consent flag.
type ConsentUpdateInput struct {
	UserID      string `json:"user_id"`
	GDPRConsent bool   `json:"gdpr_consent"`
}

// RetentionInput requests a cleanup with the given window.
type RetentionInput struct {
	RetentionDays int `json:"retention_days"`
}
