package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"peopledesk/internal/analytics"
	dErrors "peopledesk/pkg/domain-errors"
)

type staticIssuer struct{}

func (staticIssuer) GenerateAccessToken(userID, role string) (string, time.Time, error) {
	return "token-" + userID, time.Now().Add(time.Hour), nil
}

type IdentityServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *InMemoryUserStore
	events  *analytics.InMemoryEventStore
	service *Service
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryUserStore()
	s.Require().NoError(SeedDemoUsers(s.ctx, s.store))

	s.events = analytics.NewInMemoryEventStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := analytics.NewRecorder(s.events, logger)

	var err error
	s.service, err = NewService(s.store, staticIssuer{}, recorder, WithLogger(logger))
	s.Require().NoError(err)
}

func (s *IdentityServiceSuite) TestLogin() {
	s.Run("valid credentials issue a token and record a login event", func() {
		result, err := s.service.Login(s.ctx, "emp_alex", "employee123")
		s.NoError(err)
		s.Equal("token-u-emp-001", result.AccessToken)
		s.Equal("bearer", result.TokenType)
		s.Equal(RoleEmployee, result.User.Role)

		events, err := s.events.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(analytics.EventTypeAuthLogin, events[0].Type)
		s.Equal("u-emp-001", events[0].ActorID)
	})

	s.Run("wrong password is rejected", func() {
		_, err := s.service.Login(s.ctx, "emp_alex", "wrong")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown username is rejected with the same fault", func() {
		_, err := s.service.Login(s.ctx, "nobody", "employee123")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("deactivated account cannot log in", func() {
		_, err := s.store.Update(s.ctx, "u-emp-002", func(u *User) error {
			u.Active = false
			return nil
		})
		s.Require().NoError(err)

		_, err = s.service.Login(s.ctx, "emp_sam", "employee456")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *IdentityServiceSuite) TestRequireUser() {
	user, err := s.service.RequireUser(s.ctx, "u-mgr-001")
	s.NoError(err)
	s.Equal("mgr_jane", user.Username)

	_, err = s.service.RequireUser(s.ctx, "u-ghost")
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *IdentityServiceSuite) TestIsManagerOf() {
	s.True(s.service.IsManagerOf(s.ctx, "u-mgr-001", "u-emp-001"))
	s.False(s.service.IsManagerOf(s.ctx, "u-mgr-001", "u-hr-001"))
	s.False(s.service.IsManagerOf(s.ctx, "u-ghost", "u-emp-001"))
}

func (s *IdentityServiceSuite) TestList() {
	hr, err := s.store.FindByID(s.ctx, "u-hr-001")
	s.Require().NoError(err)

	users, err := s.service.List(s.ctx, hr)
	s.NoError(err)
	s.Require().Len(users, 4)
	// Insertion order is preserved.
	s.Equal("hr_admin", users[0].Username)
	s.Equal("emp_sam", users[3].Username)

	employee, err := s.store.FindByID(s.ctx, "u-emp-001")
	s.Require().NoError(err)
	_, err = s.service.List(s.ctx, employee)
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}
