package workflow

import (
	"strings"
	"time"

	"peopledesk/internal/identity"
	dErrors "peopledesk/pkg/domain-errors"
)

// LeaveStatus is the closed state set for leave requests. PENDING is the
// only non-terminal state; transitions never regress.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

// DocumentStatus is the state set for document requests.
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "PENDING"
	DocumentStatusFulfilled DocumentStatus = "FULFILLED"
)

// TaskStatus is the per-task state for onboarding checklist items.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusDone    TaskStatus = "DONE"
)

// LeaveRequest records one leave application. A decision mutates the status
// exactly once and records exactly one decider and decision timestamp; the
// record is immutable thereafter.
type LeaveRequest struct {
	ID            string      `json:"request_id"`
	EmployeeID    string      `json:"employee_id"`
	StartDate     time.Time   `json:"start_date"`
	EndDate       time.Time   `json:"end_date"`
	Reason        string      `json:"reason"`
	Status        LeaveStatus `json:"status"`
	DecisionNotes string      `json:"decision_notes,omitempty"`
	DeciderID     string      `json:"decider_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	DecidedAt     *time.Time  `json:"decided_at,omitempty"`
}

// DocumentRequest records one document request, fulfilled once by HR.
type DocumentRequest struct {
	ID           string         `json:"request_id"`
	EmployeeID   string         `json:"employee_id"`
	DocumentType string         `json:"document_type"`
	Purpose      string         `json:"purpose"`
	Status       DocumentStatus `json:"status"`
	FulfillerID  string         `json:"fulfiller_id,omitempty"`
	RequestedAt  time.Time      `json:"requested_at"`
	FulfilledAt  *time.Time     `json:"fulfilled_at,omitempty"`
}

// OnboardingTask is one item of the fixed checklist created by an HR
// trigger. Tasks transition PENDING to DONE independently, no regression.
type OnboardingTask struct {
	ID          string        `json:"task_id"`
	EmployeeID  string        `json:"employee_id"`
	Title       string        `json:"title"`
	OwnerRole   identity.Role `json:"owner_role"`
	DueDate     time.Time     `json:"due_date"`
	Status      TaskStatus    `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// CreateLeaveInput carries the payload for a new leave request.
type CreateLeaveInput struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

// Validate rejects malformed payloads before any state is touched.
func (in CreateLeaveInput) Validate() error {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "start_date and end_date are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return dErrors.New(dErrors.CodeBadRequest, "end_date must be on or after start_date")
	}
	reason := strings.TrimSpace(in.Reason)
	if len(reason) < 5 || len(reason) > 250 {
		return dErrors.New(dErrors.CodeBadRequest, "reason must be between 5 and 250 characters")
	}
	return nil
}

// DecideLeaveInput carries a manager or HR decision.
type DecideLeaveInput struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes,omitempty"`
}

func (in DecideLeaveInput) Validate() error {
	if len(in.Notes) > 300 {
		return dErrors.New(dErrors.CodeBadRequest, "notes must be at most 300 characters")
	}
	return nil
}

// CreateDocumentInput carries the payload for a new document request.
type CreateDocumentInput struct {
	DocumentType string `json:"document_type"`
	Purpose      string `json:"purpose"`
}

func (in CreateDocumentInput) Validate() error {
	docType := strings.TrimSpace(in.DocumentType)
	if len(docType) < 3 || len(docType) > 80 {
		return dErrors.New(dErrors.CodeBadRequest, "document_type must be between 3 and 80 characters")
	}
	purpose := strings.TrimSpace(in.Purpose)
	if len(purpose) < 5 || len(purpose) > 200 {
		return dErrors.New(dErrors.CodeBadRequest, "purpose must be between 5 and 200 characters")
	}
	return nil
}

// TriggerOnboardingInput starts the onboarding checklist for an employee.
type TriggerOnboardingInput struct {
	EmployeeID string    `json:"employee_id"`
	StartDate  time.Time `json:"start_date"`
}

func (in TriggerOnboardingInput) Validate() error {
	if in.EmployeeID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "employee_id is required")
	}
	if in.StartDate.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "start_date is required")
	}
	return nil
}

// checklistItem is one entry of the standard onboarding template.
type checklistItem struct {
	title     string
	ownerRole identity.Role
	dueOffset int // days after the start date
}

// onboardingChecklist is the fixed task template applied on every trigger.
var onboardingChecklist = []checklistItem{
	{title: "Complete I-9 verification", ownerRole: identity.RoleHR, dueOffset: 0},
	{title: "Provision laptop and access accounts", ownerRole: identity.RoleHR, dueOffset: 1},
	{title: "Schedule manager orientation", ownerRole: identity.RoleManager, dueOffset: 2},
	{title: "Acknowledge code of conduct", ownerRole: identity.RoleEmployee, dueOffset: 1},
}
