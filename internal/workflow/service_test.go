package workflow

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"peopledesk/internal/analytics"
	"peopledesk/internal/identity"
	dErrors "peopledesk/pkg/domain-errors"
)

// allowAllConsent passes every consent check; denyConsent simulates a
// subject who withdrew consent.
type allowAllConsent struct{}

func (allowAllConsent) RequireConsent(context.Context, identity.User, string) error {
	return nil
}

type denyConsent struct{}

func (denyConsent) RequireConsent(_ context.Context, _ identity.User, purpose string) error {
	return dErrors.Newf(dErrors.CodeMissingConsent, "GDPR consent missing for purpose %q", purpose)
}

type WorkflowServiceSuite struct {
	suite.Suite
	ctx     context.Context
	users   *identity.InMemoryUserStore
	leaves  *InMemoryLeaveStore
	tasks   *InMemoryTaskStore
	events  *analytics.InMemoryEventStore
	service *Service

	hr       identity.User
	manager  identity.User
	employee identity.User
	other    identity.User
}

func TestWorkflowServiceSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceSuite))
}

func (s *WorkflowServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = identity.NewInMemoryUserStore()
	s.Require().NoError(identity.SeedDemoUsers(s.ctx, s.users))

	s.leaves = NewInMemoryLeaveStore()
	s.tasks = NewInMemoryTaskStore()
	s.events = analytics.NewInMemoryEventStore()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := analytics.NewRecorder(s.events, logger)

	var err error
	s.service, err = NewService(
		s.leaves, NewInMemoryDocumentStore(), s.tasks,
		s.users, allowAllConsent{}, recorder,
		WithLogger(logger),
	)
	s.Require().NoError(err)

	s.hr = s.mustFind("u-hr-001")
	s.manager = s.mustFind("u-mgr-001")
	s.employee = s.mustFind("u-emp-001")
	s.other = s.mustFind("u-emp-002")
}

func (s *WorkflowServiceSuite) mustFind(id string) identity.User {
	user, err := s.users.FindByID(s.ctx, id)
	s.Require().NoError(err)
	return user
}

func (s *WorkflowServiceSuite) createLeave() LeaveRequest {
	request, err := s.service.CreateLeaveRequest(s.ctx, s.employee, CreateLeaveInput{
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Reason:    "family visit",
	})
	s.Require().NoError(err)
	return request
}

func (s *WorkflowServiceSuite) workflowEvents() []analytics.Event {
	all, err := s.events.List(s.ctx)
	s.Require().NoError(err)
	var out []analytics.Event
	for _, e := range all {
		if e.Type == analytics.EventTypeWorkflowAction {
			out = append(out, e)
		}
	}
	return out
}

func (s *WorkflowServiceSuite) TestLeaveLifecycle() {
	request := s.createLeave()
	s.Equal(LeaveStatusPending, request.Status)
	s.Equal(s.employee.ID, request.EmployeeID)

	decided, err := s.service.DecideLeave(s.ctx, s.manager, request.ID, DecideLeaveInput{
		Approve: true, Notes: "enjoy",
	})
	s.NoError(err)
	s.Equal(LeaveStatusApproved, decided.Status)
	s.Equal(s.manager.ID, decided.DeciderID)
	s.Require().NotNil(decided.DecidedAt)

	events := s.workflowEvents()
	s.Require().Len(events, 2)
	s.Equal("leave_created", events[0].Details["action"])
	s.False(events[0].Automated)
	s.Equal("leave_decided", events[1].Details["action"])
	s.False(events[1].Automated)
	s.Equal("MANAGER", events[1].ActorRole)
}

func (s *WorkflowServiceSuite) TestCreateLeaveValidation() {
	s.Run("end before start", func() {
		_, err := s.service.CreateLeaveRequest(s.ctx, s.employee, CreateLeaveInput{
			StartDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Reason:    "family visit",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("reason too short", func() {
		_, err := s.service.CreateLeaveRequest(s.ctx, s.employee, CreateLeaveInput{
			StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
			Reason:    "hi",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("no event is recorded for rejected input", func() {
		s.Empty(s.workflowEvents())
	})
}

func (s *WorkflowServiceSuite) TestConsentGate() {
	gated, err := NewService(
		s.leaves, NewInMemoryDocumentStore(), s.tasks,
		s.users, denyConsent{},
		analytics.NewRecorder(s.events, slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)

	_, err = gated.CreateLeaveRequest(s.ctx, s.employee, CreateLeaveInput{
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Reason:    "family visit",
	})
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))

	_, err = gated.CreateDocumentRequest(s.ctx, s.employee, CreateDocumentInput{
		DocumentType: "employment_letter",
		Purpose:      "visa application",
	})
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))
}

func (s *WorkflowServiceSuite) TestDecideLeaveGuards() {
	request := s.createLeave()

	s.Run("employee cannot decide", func() {
		_, err := s.service.DecideLeave(s.ctx, s.other, request.ID, DecideLeaveInput{Approve: true})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("requester cannot decide their own leave", func() {
		own, err := s.service.CreateLeaveRequest(s.ctx, s.manager, CreateLeaveInput{
			StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			Reason:    "long weekend",
		})
		s.Require().NoError(err)

		_, err = s.service.DecideLeave(s.ctx, s.manager, own.ID, DecideLeaveInput{Approve: true})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("manager cannot decide outside their team", func() {
		hrLeave, err := s.service.CreateLeaveRequest(s.ctx, s.hr, CreateLeaveInput{
			StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
			Reason:    "conference",
		})
		s.Require().NoError(err)

		_, err = s.service.DecideLeave(s.ctx, s.manager, hrLeave.ID, DecideLeaveInput{Approve: true})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown request is not found", func() {
		_, err := s.service.DecideLeave(s.ctx, s.manager, "leave-999999", DecideLeaveInput{Approve: true})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("second decision conflicts and keeps the first outcome", func() {
		_, err := s.service.DecideLeave(s.ctx, s.manager, request.ID, DecideLeaveInput{Approve: true})
		s.Require().NoError(err)

		_, err = s.service.DecideLeave(s.ctx, s.hr, request.ID, DecideLeaveInput{Approve: false})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		current, err := s.leaves.FindByID(s.ctx, request.ID)
		s.Require().NoError(err)
		s.Equal(LeaveStatusApproved, current.Status)
	})
}

func (s *WorkflowServiceSuite) TestDocumentLifecycle() {
	request, err := s.service.CreateDocumentRequest(s.ctx, s.employee, CreateDocumentInput{
		DocumentType: "employment_letter",
		Purpose:      "visa application",
	})
	s.Require().NoError(err)
	s.Equal(DocumentStatusPending, request.Status)

	s.Run("only HR fulfills", func() {
		_, err := s.service.FulfillDocumentRequest(s.ctx, s.manager, request.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("fulfillment is recorded as automated", func() {
		fulfilled, err := s.service.FulfillDocumentRequest(s.ctx, s.hr, request.ID)
		s.NoError(err)
		s.Equal(DocumentStatusFulfilled, fulfilled.Status)
		s.Equal(s.hr.ID, fulfilled.FulfillerID)
		s.Require().NotNil(fulfilled.FulfilledAt)

		events := s.workflowEvents()
		last := events[len(events)-1]
		s.Equal("document_fulfilled", last.Details["action"])
		s.True(last.Automated)
	})

	s.Run("second fulfillment conflicts", func() {
		_, err := s.service.FulfillDocumentRequest(s.ctx, s.hr, request.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *WorkflowServiceSuite) TestTriggerOnboarding() {
	start := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	s.Run("only HR triggers", func() {
		_, err := s.service.TriggerOnboarding(s.ctx, s.manager, TriggerOnboardingInput{
			EmployeeID: s.employee.ID, StartDate: start,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown employee is not found", func() {
		_, err := s.service.TriggerOnboarding(s.ctx, s.hr, TriggerOnboardingInput{
			EmployeeID: "u-ghost", StartDate: start,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("trigger creates the full checklist and one automated event", func() {
		tasks, err := s.service.TriggerOnboarding(s.ctx, s.hr, TriggerOnboardingInput{
			EmployeeID: s.employee.ID, StartDate: start,
		})
		s.NoError(err)
		s.Require().Len(tasks, 4)

		s.Equal("Complete I-9 verification", tasks[0].Title)
		s.Equal(identity.RoleHR, tasks[0].OwnerRole)
		s.Equal(start, tasks[0].DueDate)
		s.Equal("Provision laptop and access accounts", tasks[1].Title)
		s.Equal(start.AddDate(0, 0, 1), tasks[1].DueDate)
		s.Equal("Schedule manager orientation", tasks[2].Title)
		s.Equal(identity.RoleManager, tasks[2].OwnerRole)
		s.Equal("Acknowledge code of conduct", tasks[3].Title)
		s.Equal(identity.RoleEmployee, tasks[3].OwnerRole)
		for _, task := range tasks {
			s.Equal(TaskStatusPending, task.Status)
			s.Equal(s.employee.ID, task.EmployeeID)
		}

		events := s.workflowEvents()
		s.Require().Len(events, 1)
		s.Equal("onboarding_triggered", events[0].Details["action"])
		s.True(events[0].Automated)
	})
}

func (s *WorkflowServiceSuite) TestCompleteTask() {
	tasks, err := s.service.TriggerOnboarding(s.ctx, s.hr, TriggerOnboardingInput{
		EmployeeID: s.employee.ID,
		StartDate:  time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	s.Run("employee completes their own task", func() {
		done, err := s.service.CompleteTask(s.ctx, s.employee, tasks[3].ID)
		s.NoError(err)
		s.Equal(TaskStatusDone, done.Status)
		s.Require().NotNil(done.CompletedAt)
	})

	s.Run("completing a done task conflicts", func() {
		_, err := s.service.CompleteTask(s.ctx, s.employee, tasks[3].ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unrelated employee is forbidden", func() {
		_, err := s.service.CompleteTask(s.ctx, s.other, tasks[0].ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("manager completes a team member's task", func() {
		done, err := s.service.CompleteTask(s.ctx, s.manager, tasks[2].ID)
		s.NoError(err)
		s.Equal(TaskStatusDone, done.Status)
	})
}

func (s *WorkflowServiceSuite) TestVisibility() {
	mine := s.createLeave()
	_, err := s.service.CreateLeaveRequest(s.ctx, s.hr, CreateLeaveInput{
		StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Reason:    "conference",
	})
	s.Require().NoError(err)

	s.Run("HR sees everything", func() {
		all, err := s.service.ListLeaveRequests(s.ctx, s.hr)
		s.NoError(err)
		s.Len(all, 2)
	})

	s.Run("manager sees only their team", func() {
		visible, err := s.service.ListLeaveRequests(s.ctx, s.manager)
		s.NoError(err)
		s.Require().Len(visible, 1)
		s.Equal(mine.ID, visible[0].ID)
	})

	s.Run("employee sees only their own", func() {
		visible, err := s.service.ListLeaveRequests(s.ctx, s.employee)
		s.NoError(err)
		s.Require().Len(visible, 1)
		s.Equal(mine.ID, visible[0].ID)

		none, err := s.service.ListLeaveRequests(s.ctx, s.other)
		s.NoError(err)
		s.Empty(none)
	})
}
