package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"peopledesk/internal/analytics"
	"peopledesk/internal/platform/metrics"
	dErrors "peopledesk/pkg/domain-errors"
	"peopledesk/pkg/platform/sentinel"
)

// TokenIssuer signs access tokens. The JWT service implements it.
type TokenIssuer interface {
	GenerateAccessToken(userID, role string) (token string, expiresAt time.Time, err error)
}

// EventRecorder publishes to the append-only event log.
type EventRecorder interface {
	Record(ctx context.Context, event analytics.Event) error
}

// LoginResult is returned on a successful credential exchange.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// Service resolves identities and issues tokens. It keeps transport concerns
// out of business logic.
type Service struct {
	users    UserStore
	tokens   TokenIssuer
	recorder EventRecorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

func NewService(users UserStore, tokens TokenIssuer, recorder EventRecorder, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if recorder == nil {
		return nil, errors.New("event recorder is required")
	}
	svc := &Service{
		users:    users,
		tokens:   tokens,
		recorder: recorder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Login verifies credentials and issues an access token. Unknown usernames,
// wrong passwords and deactivated accounts all surface as the same
// unauthorized fault so the response does not leak which part failed.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	if !user.Active {
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}

	if err := s.recorder.Record(ctx, analytics.Event{
		ActorID:   user.ID,
		ActorRole: user.Role.String(),
		Type:      analytics.EventTypeAuthLogin,
		Details:   map[string]string{"username": user.Username},
	}); err != nil {
		return LoginResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record login event")
	}
	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}

	return LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// RequireUser resolves an authenticated subject ID to its user record.
func (s *Service) RequireUser(ctx context.Context, id string) (User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return User{}, dErrors.New(dErrors.CodeUnauthorized, "user not found")
		}
		return User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return user, nil
}

// IsManagerOf reports whether managerID has employeeID as a direct report.
func (s *Service) IsManagerOf(ctx context.Context, managerID, employeeID string) bool {
	manager, err := s.users.FindByID(ctx, managerID)
	if err != nil {
		return false
	}
	for _, member := range manager.TeamMembers {
		if member == employeeID {
			return true
		}
	}
	return false
}

// List returns the user directory in insertion order. Guarded by the
// users:read permission.
func (s *Service) List(ctx context.Context, actor User) ([]User, error) {
	if !actor.Role.Can(PermUsersRead) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to list users")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}
