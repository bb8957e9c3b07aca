package policy

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"peopledesk/internal/analytics"
	"peopledesk/internal/identity"
	dErrors "peopledesk/pkg/domain-errors"
)

type allowAllConsent struct{}

func (allowAllConsent) RequireConsent(context.Context, identity.User, string) error {
	return nil
}

type denyConsent struct{}

func (denyConsent) RequireConsent(_ context.Context, _ identity.User, purpose string) error {
	return dErrors.Newf(dErrors.CodeMissingConsent, "GDPR consent missing for purpose %q", purpose)
}

func testDataset() []Document {
	return []Document{
		{
			ID:       "pol-leave",
			Title:    "Annual Leave Policy",
			Category: "leave",
			Audience: "employee,manager,hr_admin",
			Content:  "Employees accrue 25 days of annual leave per year. Requests need manager approval at least two weeks in advance.",
			Tags:     []string{"leave", "vacation", "pto"},
		},
		{
			ID:       "pol-remote",
			Title:    "Remote Work Policy",
			Category: "work_arrangements",
			Audience: "employee,manager",
			Content:  "Employees may work remotely up to three days per week with manager sign-off.",
			Tags:     []string{"remote", "hybrid"},
		},
		{
			ID:       "pol-expenses",
			Title:    "Expense Reimbursement Policy",
			Category: "finance",
			Audience: "employee,manager,hr_admin",
			Content:  "Business expenses are reimbursed within 30 days when submitted with receipts.",
			Tags:     []string{"expenses", "reimbursement"},
		},
	}
}

type PolicyServiceSuite struct {
	suite.Suite
	ctx       context.Context
	responses *InMemoryResponseStore
	feedback  *InMemoryFeedbackStore
	events    *analytics.InMemoryEventStore
	service   *Service

	employee identity.User
}

func TestPolicyServiceSuite(t *testing.T) {
	suite.Run(t, new(PolicyServiceSuite))
}

func (s *PolicyServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.responses = NewInMemoryResponseStore()
	s.feedback = NewInMemoryFeedbackStore()
	s.events = analytics.NewInMemoryEventStore()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := analytics.NewRecorder(s.events, logger)

	var err error
	s.service, err = NewService(
		testDataset(), s.responses, s.feedback,
		allowAllConsent{}, recorder,
		WithLogger(logger),
	)
	s.Require().NoError(err)

	s.employee = identity.User{
		ID:          "u-emp-001",
		Username:    "emp_alex",
		Role:        identity.RoleEmployee,
		GDPRConsent: true,
	}
}

func (s *PolicyServiceSuite) TestQueryMatch() {
	response, err := s.service.Query(s.ctx, s.employee, QueryInput{
		Question: "How many days of annual leave do I get per year?",
	})
	s.NoError(err)
	s.True(strings.HasPrefix(response.ResponseID, "pol-"))
	s.Contains(response.Answer, "Annual Leave Policy")
	s.Contains(response.Answer, "25 days")
	s.Require().NotEmpty(response.Citations)
	s.Equal("pol-leave", response.Citations[0].PolicyID)
	s.Greater(response.Confidence, 0.2)
	s.LessOrEqual(response.Confidence, 0.99)
	s.NotEmpty(response.GovernanceNotice)

	stored, err := s.responses.FindByID(s.ctx, response.ResponseID)
	s.Require().NoError(err)
	s.Equal(s.employee.ID, stored.UserID)

	events, err := s.events.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(analytics.EventTypeQuery, events[0].Type)
	s.Equal(response.ResponseID, events[0].Details["response_id"])
}

func (s *PolicyServiceSuite) TestQuerySanitizesQuestion() {
	response, err := s.service.Query(s.ctx, s.employee, QueryInput{
		Question: "Can alex.kim@example.com expense badge 12345678 for remote work?",
	})
	s.Require().NoError(err)

	stored, err := s.responses.FindByID(s.ctx, response.ResponseID)
	s.Require().NoError(err)
	s.NotContains(stored.Question, "alex.kim@example.com")
	s.NotContains(stored.Question, "12345678")
	s.Contains(stored.Question, "[REDACTED_EMAIL]")
	s.Contains(stored.Question, "[REDACTED_NUMBER]")

	events, err := s.events.List(s.ctx)
	s.Require().NoError(err)
	s.NotContains(events[0].Details["question"], "alex.kim@example.com")
}

func (s *PolicyServiceSuite) TestQueryLowConfidenceEscalates() {
	// A dataset addressed to managers only, so an employee question gets no
	// audience boost and an off-topic question falls below the threshold.
	docs := []Document{{
		ID:       "pol-calibration",
		Title:    "Performance Calibration Policy",
		Category: "performance",
		Audience: "manager",
		Content:  "Calibration sessions run twice a year before review cycles close.",
		Tags:     []string{"calibration"},
	}}
	svc, err := NewService(
		docs, s.responses, s.feedback,
		allowAllConsent{},
		analytics.NewRecorder(s.events, slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)

	response, err := svc.Query(s.ctx, s.employee, QueryInput{
		Question: "where do I park my bicycle",
	})
	s.NoError(err)
	s.Contains(response.Answer, "Escalate to HR")
	s.Equal(0.2, response.Confidence)
	s.Len(response.Citations, 1)
}

func (s *PolicyServiceSuite) TestQueryValidation() {
	_, err := s.service.Query(s.ctx, s.employee, QueryInput{Question: "hi"})
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *PolicyServiceSuite) TestQueryConsentGate() {
	gated, err := NewService(
		testDataset(), s.responses, s.feedback,
		denyConsent{},
		analytics.NewRecorder(s.events, slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)

	_, err = gated.Query(s.ctx, s.employee, QueryInput{Question: "leave policy?"})
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))
}

func (s *PolicyServiceSuite) TestRecordFeedback() {
	response, err := s.service.Query(s.ctx, s.employee, QueryInput{
		Question: "How do I claim expenses?",
	})
	s.Require().NoError(err)

	s.Run("valid feedback is stored and logged", func() {
		feedback, err := s.service.RecordFeedback(s.ctx, s.employee, FeedbackInput{
			ResponseID: response.ResponseID,
			Accurate:   true,
			Comment:    "exactly what I needed",
		})
		s.NoError(err)
		s.NotEmpty(feedback.ID)
		s.Equal(s.employee.ID, feedback.SubmitterID)

		total, accurate, err := s.feedback.CountFeedback(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, total)
		s.Equal(1, accurate)

		events, err := s.events.List(s.ctx)
		s.Require().NoError(err)
		last := events[len(events)-1]
		s.Equal(analytics.EventTypeFeedback, last.Type)
	})

	s.Run("unknown response ID is rejected", func() {
		_, err := s.service.RecordFeedback(s.ctx, s.employee, FeedbackInput{
			ResponseID: "pol-does-not-exist",
			Accurate:   false,
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("missing response ID fails validation", func() {
		_, err := s.service.RecordFeedback(s.ctx, s.employee, FeedbackInput{Accurate: true})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestSanitizeQuestion(t *testing.T) {
	got := sanitizeQuestion("mail jane@corp.example or call 5551234567")
	if strings.Contains(got, "jane@corp.example") || strings.Contains(got, "5551234567") {
		t.Fatalf("identifiers survived sanitization: %q", got)
	}
}
