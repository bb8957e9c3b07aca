package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"peopledesk/internal/analytics"
	"peopledesk/internal/identity"
	"peopledesk/internal/platform/metrics"
	dErrors "peopledesk/pkg/domain-errors"
	"peopledesk/pkg/platform/sentinel"
)

// Consent purposes the workflow operations are gated on.
const (
	PurposeLeaveRequest    = "leave_request"
	PurposeDocumentRequest = "document_request"
)

// ConsentChecker enforces the consent gate before personal data is
// processed. The governance service implements it; the consumer-side
// interface avoids an import cycle.
type ConsentChecker interface {
	RequireConsent(ctx context.Context, user identity.User, purpose string) error
}

// EventRecorder publishes to the append-only event log.
type EventRecorder interface {
	Record(ctx context.Context, event analytics.Event) error
}

// Service enforces the workflow state machine: legal transitions on leave,
// document and onboarding records with role guards at every step. All status
// mutations go through the store's Mutate so concurrent decisions serialize
// and the loser observes the terminal state.
type Service struct {
	leaves    LeaveStore
	documents DocumentStore
	tasks     TaskStore
	users     identity.UserStore
	consent   ConsentChecker
	recorder  EventRecorder
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(
	leaves LeaveStore,
	documents DocumentStore,
	tasks TaskStore,
	users identity.UserStore,
	consent ConsentChecker,
	recorder EventRecorder,
	opts ...Option,
) (*Service, error) {
	if leaves == nil || documents == nil || tasks == nil {
		return nil, errors.New("workflow stores are required")
	}
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if consent == nil {
		return nil, errors.New("consent checker is required")
	}
	if recorder == nil {
		return nil, errors.New("event recorder is required")
	}
	svc := &Service{
		leaves:    leaves,
		documents: documents,
		tasks:     tasks,
		users:     users,
		consent:   consent,
		recorder:  recorder,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CreateLeaveRequest files a new leave request for the calling user.
func (s *Service) CreateLeaveRequest(ctx context.Context, actor identity.User, input CreateLeaveInput) (LeaveRequest, error) {
	if err := identity.RequireRole(actor, identity.RoleEmployee, identity.RoleManager, identity.RoleHR); err != nil {
		return LeaveRequest{}, err
	}
	if err := s.consent.RequireConsent(ctx, actor, PurposeLeaveRequest); err != nil {
		return LeaveRequest{}, err
	}
	if err := input.Validate(); err != nil {
		return LeaveRequest{}, err
	}

	request, err := s.leaves.Create(ctx, LeaveRequest{
		EmployeeID: actor.ID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Reason:     input.Reason,
		Status:     LeaveStatusPending,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return LeaveRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create leave request")
	}

	if err := s.emitWorkflowEvent(ctx, actor, "leave_created", "leave_request", request.ID, string(request.Status), false); err != nil {
		return LeaveRequest{}, err
	}
	return request, nil
}

// DecideLeave applies an approve/reject decision. The decider must be a
// manager of the requester or HR, and never the requester themselves. A
// request that already left PENDING faults with a conflict.
func (s *Service) DecideLeave(ctx context.Context, actor identity.User, requestID string, input DecideLeaveInput) (LeaveRequest, error) {
	if err := input.Validate(); err != nil {
		return LeaveRequest{}, err
	}

	current, err := s.leaves.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return LeaveRequest{}, dErrors.New(dErrors.CodeNotFound, "leave request not found")
		}
		return LeaveRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load leave request")
	}

	if err := identity.RequireRole(actor, identity.RoleManager, identity.RoleHR); err != nil {
		return LeaveRequest{}, err
	}
	if actor.ID == current.EmployeeID {
		return LeaveRequest{}, dErrors.New(dErrors.CodeForbidden, "requester may not decide their own leave")
	}
	if actor.Role == identity.RoleManager && !actor.CanActOn(current.EmployeeID) {
		return LeaveRequest{}, dErrors.New(dErrors.CodeForbidden, "manager may only decide leave for their own team")
	}

	status := LeaveStatusRejected
	if input.Approve {
		status = LeaveStatusApproved
	}
	now := time.Now().UTC()

	decided, err := s.leaves.Mutate(ctx, requestID, func(r *LeaveRequest) error {
		if r.Status != LeaveStatusPending {
			return dErrors.Newf(dErrors.CodeConflict, "leave request already %s", r.Status)
		}
		r.Status = status
		r.DecisionNotes = input.Notes
		r.DeciderID = actor.ID
		r.DecidedAt = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return LeaveRequest{}, dErrors.New(dErrors.CodeNotFound, "leave request not found")
		}
		return LeaveRequest{}, err
	}

	if err := s.emitWorkflowEvent(ctx, actor, "leave_decided", "leave_request", decided.ID, string(decided.Status), false); err != nil {
		return LeaveRequest{}, err
	}
	return decided, nil
}

// CreateDocumentRequest files a document request for the calling user.
func (s *Service) CreateDocumentRequest(ctx context.Context, actor identity.User, input CreateDocumentInput) (DocumentRequest, error) {
	if err := s.consent.RequireConsent(ctx, actor, PurposeDocumentRequest); err != nil {
		return DocumentRequest{}, err
	}
	if err := input.Validate(); err != nil {
		return DocumentRequest{}, err
	}

	request, err := s.documents.Create(ctx, DocumentRequest{
		EmployeeID:   actor.ID,
		DocumentType: input.DocumentType,
		Purpose:      input.Purpose,
		Status:       DocumentStatusPending,
		RequestedAt:  time.Now().UTC(),
	})
	if err != nil {
		return DocumentRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create document request")
	}

	if err := s.emitWorkflowEvent(ctx, actor, "document_requested", "document_request", request.ID, string(request.Status), false); err != nil {
		return DocumentRequest{}, err
	}
	return request, nil
}

// FulfillDocumentRequest marks a request fulfilled. HR only; fulfilling an
// already-fulfilled request faults with a conflict.
func (s *Service) FulfillDocumentRequest(ctx context.Context, actor identity.User, requestID string) (DocumentRequest, error) {
	if err := identity.RequireRole(actor, identity.RoleHR); err != nil {
		return DocumentRequest{}, err
	}

	now := time.Now().UTC()
	fulfilled, err := s.documents.Mutate(ctx, requestID, func(r *DocumentRequest) error {
		if r.Status != DocumentStatusPending {
			return dErrors.New(dErrors.CodeConflict, "document request already fulfilled")
		}
		r.Status = DocumentStatusFulfilled
		r.FulfillerID = actor.ID
		r.FulfilledAt = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return DocumentRequest{}, dErrors.New(dErrors.CodeNotFound, "document request not found")
		}
		return DocumentRequest{}, err
	}

	if err := s.emitWorkflowEvent(ctx, actor, "document_fulfilled", "document_request", fulfilled.ID, string(fulfilled.Status), true); err != nil {
		return DocumentRequest{}, err
	}
	return fulfilled, nil
}

// TriggerOnboarding creates the fixed checklist for an employee. HR only.
// The trigger counts as one automated workflow action regardless of the
// checklist length.
func (s *Service) TriggerOnboarding(ctx context.Context, actor identity.User, input TriggerOnboardingInput) ([]OnboardingTask, error) {
	if err := identity.RequireRole(actor, identity.RoleHR); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, input.EmployeeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up employee")
	}

	now := time.Now().UTC()
	created := make([]OnboardingTask, 0, len(onboardingChecklist))
	for _, item := range onboardingChecklist {
		task, err := s.tasks.Create(ctx, OnboardingTask{
			EmployeeID: input.EmployeeID,
			Title:      item.title,
			OwnerRole:  item.ownerRole,
			DueDate:    input.StartDate.AddDate(0, 0, item.dueOffset),
			Status:     TaskStatusPending,
			CreatedAt:  now,
		})
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create onboarding task")
		}
		created = append(created, task)
	}

	if err := s.emitWorkflowEvent(ctx, actor, "onboarding_triggered", "onboarding", input.EmployeeID, string(TaskStatusPending), true); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "onboarding checklist created",
		"employee_id", input.EmployeeID,
		"tasks", len(created),
	)
	return created, nil
}

// CompleteTask transitions one onboarding task PENDING to DONE. Visible to
// HR and to holders of the task's owner role acting on their own team or
// themselves; no regression once done.
func (s *Service) CompleteTask(ctx context.Context, actor identity.User, taskID string) (OnboardingTask, error) {
	current, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return OnboardingTask{}, dErrors.New(dErrors.CodeNotFound, "onboarding task not found")
		}
		return OnboardingTask{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load onboarding task")
	}
	if actor.Role != identity.RoleHR && !actor.CanActOn(current.EmployeeID) {
		return OnboardingTask{}, dErrors.New(dErrors.CodeForbidden, "not allowed to complete this task")
	}

	now := time.Now().UTC()
	done, err := s.tasks.Mutate(ctx, taskID, func(t *OnboardingTask) error {
		if t.Status != TaskStatusPending {
			return dErrors.New(dErrors.CodeConflict, "onboarding task already done")
		}
		t.Status = TaskStatusDone
		t.CompletedAt = &now
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return OnboardingTask{}, dErrors.New(dErrors.CodeNotFound, "onboarding task not found")
		}
		return OnboardingTask{}, err
	}

	if err := s.emitWorkflowEvent(ctx, actor, "onboarding_task_completed", "onboarding_task", done.ID, string(done.Status), true); err != nil {
		return OnboardingTask{}, err
	}
	return done, nil
}

// ListLeaveRequests returns leave requests visible to the actor: HR sees
// all, a manager their team and themselves, an employee only their own.
func (s *Service) ListLeaveRequests(ctx context.Context, actor identity.User) ([]LeaveRequest, error) {
	all, err := s.leaves.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list leave requests")
	}
	if actor.Role == identity.RoleHR {
		return all, nil
	}
	visible := make([]LeaveRequest, 0, len(all))
	for _, r := range all {
		if actor.CanActOn(r.EmployeeID) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// ListDocumentRequests applies the same visibility rules as leave listings.
func (s *Service) ListDocumentRequests(ctx context.Context, actor identity.User) ([]DocumentRequest, error) {
	all, err := s.documents.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list document requests")
	}
	if actor.Role == identity.RoleHR {
		return all, nil
	}
	visible := make([]DocumentRequest, 0, len(all))
	for _, r := range all {
		if actor.CanActOn(r.EmployeeID) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// ListOnboardingTasks applies the same visibility rules, optionally filtered
// to one employee.
func (s *Service) ListOnboardingTasks(ctx context.Context, actor identity.User, employeeID string) ([]OnboardingTask, error) {
	all, err := s.tasks.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list onboarding tasks")
	}
	visible := make([]OnboardingTask, 0, len(all))
	for _, t := range all {
		if employeeID != "" && t.EmployeeID != employeeID {
			continue
		}
		if actor.Role == identity.RoleHR || actor.CanActOn(t.EmployeeID) {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

func (s *Service) emitWorkflowEvent(ctx context.Context, actor identity.User, action, entityType, entityID, status string, automated bool) error {
	s.metrics.IncWorkflowAction(action)
	err := s.recorder.Record(ctx, analytics.Event{
		ActorID:   actor.ID,
		ActorRole: actor.Role.String(),
		Type:      analytics.EventTypeWorkflowAction,
		Automated: automated,
		Details: map[string]string{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
			"status":      status,
		},
	})
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record workflow event")
}
