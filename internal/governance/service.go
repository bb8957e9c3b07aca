package governance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"peopledesk/internal/analytics"
	"peopledesk/internal/identity"
	"peopledesk/internal/platform/metrics"
	"peopledesk/internal/policy"
	"peopledesk/internal/workflow"
	dErrors "peopledesk/pkg/domain-errors"
	"peopledesk/pkg/platform/sentinel"
)

const (
	anonymizedName = "Anonymized User"
	redactedText   = "[REDACTED]"
	retentionText  = "[REDACTED_RETENTION]"
)

// EventRecorder publishes to the append-only event log.
type EventRecorder interface {
	Record(ctx context.Context, event analytics.Event) error
}

// Service implements the governance actions: consent management, subject
// access export, erasure and retention cleanup. Each action is a bounded
// transformation over the record stores guarded by role.
type Service struct {
	users     identity.UserStore
	leaves    workflow.LeaveStore
	documents workflow.DocumentStore
	tasks     workflow.TaskStore
	feedback  policy.FeedbackStore
	events    analytics.EventStore
	recorder  EventRecorder
	logger    *slog.Logger
	metrics   *metrics.Metrics
	// minRetentionDays rejects cleanup windows that would erase the log
	// wholesale. Configurable for tests.
	minRetentionDays int
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

func WithMinRetentionDays(days int) Option {
	return func(s *Service) {
		s.minRetentionDays = days
	}
}

func NewService(
	users identity.UserStore,
	leaves workflow.LeaveStore,
	documents workflow.DocumentStore,
	tasks workflow.TaskStore,
	feedback policy.FeedbackStore,
	events analytics.EventStore,
	recorder EventRecorder,
	opts ...Option,
) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if leaves == nil || documents == nil || tasks == nil {
		return nil, errors.New("workflow stores are required")
	}
	if feedback == nil {
		return nil, errors.New("feedback store is required")
	}
	if events == nil {
		return nil, errors.New("event store is required")
	}
	if recorder == nil {
		return nil, errors.New("event recorder is required")
	}
	svc := &Service{
		users:            users,
		leaves:           leaves,
		documents:        documents,
		tasks:            tasks,
		feedback:         feedback,
		events:           events,
		recorder:         recorder,
		logger:           slog.Default(),
		minRetentionDays: 30,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RequireConsent is the consent gate the workflow and policy services call
// before processing a subject's data.
func (s *Service) RequireConsent(_ context.Context, user identity.User, purpose string) error {
	if !user.GDPRConsent {
		return dErrors.Newf(dErrors.CodeMissingConsent, "GDPR consent missing for purpose %q", purpose)
	}
	return nil
}

// UpdateConsent sets a subject's consent flag. Only HR or the subject
// themselves may change it.
func (s *Service) UpdateConsent(ctx context.Context, actor identity.User, input ConsentUpdateInput) (identity.User, error) {
	if input.UserID == "" {
		return identity.User{}, dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}
	if actor.Role != identity.RoleHR && actor.ID != input.UserID {
		return identity.User{}, dErrors.New(dErrors.CodeForbidden, "not allowed to change this consent setting")
	}

	updated, err := s.users.Update(ctx, input.UserID, func(u *identity.User) error {
		u.GDPRConsent = input.GDPRConsent
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return identity.User{}, dErrors.New(dErrors.CodeNotFound, "target user not found")
		}
		return identity.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update consent")
	}

	if err := s.emitGovernanceEvent(ctx, actor, "consent_update", map[string]string{
		"target_user_id": input.UserID,
		"gdpr_consent":   strconv.FormatBool(input.GDPRConsent),
	}); err != nil {
		return identity.User{}, err
	}
	return updated, nil
}

// SubjectAccessExport assembles every record referencing the target user.
// Only HR or the subject themselves may request it.
func (s *Service) SubjectAccessExport(ctx context.Context, actor identity.User, targetUserID string) (SubjectExport, error) {
	if actor.Role != identity.RoleHR && actor.ID != targetUserID {
		return SubjectExport{}, dErrors.New(dErrors.CodeForbidden, "not allowed to access this data")
	}

	target, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return SubjectExport{}, dErrors.New(dErrors.CodeNotFound, "target user not found")
		}
		return SubjectExport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up target user")
	}

	export := SubjectExport{User: target, ExportedAt: time.Now().UTC()}

	leaves, err := s.leaves.List(ctx)
	if err != nil {
		return SubjectExport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to collect leave requests")
	}
	for _, r := range leaves {
		if r.EmployeeID == targetUserID {
			export.LeaveRequests = append(export.LeaveRequests, r)
		}
	}

	documents, err := s.documents.List(ctx)
	if err != nil {
		return SubjectExport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to collect document requests")
	}
	for _, r := range documents {
		if r.EmployeeID == targetUserID {
			export.DocumentRequests = append(export.DocumentRequests, r)
		}
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return SubjectExport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to collect onboarding tasks")
	}
	for _, t := range tasks {
		if t.EmployeeID == targetUserID {
			export.OnboardingTasks = append(export.OnboardingTasks, t)
		}
	}

	feedback, err := s.feedback.ListBySubmitter(ctx, targetUserID)
	if err != nil {
		return SubjectExport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to collect feedback")
	}
	export.Feedback = feedback

	events, err := s.events.ListByActor(ctx, targetUserID)
	if err != nil {
		return SubjectExport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to collect events")
	}
	export.Events = events

	if err := s.emitGovernanceEvent(ctx, actor, "subject_access_request", map[string]string{
		"target_user_id": targetUserID,
	}); err != nil {
		return SubjectExport{}, err
	}
	return export, nil
}

// AnonymizedID derives the stable placeholder for a user ID. Deterministic
// so repeated erasures converge on the same end state.
func AnonymizedID(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return "anon-" + hex.EncodeToString(sum[:])[:10]
}

// EraseSubject anonymizes a subject's personal fields and rewrites every
// record referencing them to the anonymized ID. Record counts and
// timestamps are preserved for analytics fidelity; the user record itself
// is never deleted. HR only; erasing an already-erased subject is a no-op.
func (s *Service) EraseSubject(ctx context.Context, actor identity.User, targetUserID string) (ErasureResult, error) {
	if err := identity.RequireRole(actor, identity.RoleHR); err != nil {
		return ErasureResult{}, err
	}

	target, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErasureResult{}, dErrors.New(dErrors.CodeNotFound, "target user not found")
		}
		return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up target user")
	}

	anonID := AnonymizedID(targetUserID)
	if target.Username == anonID {
		return ErasureResult{
			UserID:        targetUserID,
			AnonymizedID:  anonID,
			AlreadyErased: true,
		}, nil
	}

	if _, err := s.users.Update(ctx, targetUserID, func(u *identity.User) error {
		u.Username = anonID
		u.FullName = anonymizedName
		u.GDPRConsent = false
		u.Active = false
		u.TeamMembers = nil
		return nil
	}); err != nil {
		return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to anonymize user")
	}

	updated := 0

	leaves, err := s.leaves.List(ctx)
	if err != nil {
		return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan leave requests")
	}
	for _, r := range leaves {
		if r.EmployeeID != targetUserID && r.DeciderID != targetUserID {
			continue
		}
		if _, err := s.leaves.Mutate(ctx, r.ID, func(lr *workflow.LeaveRequest) error {
			if lr.EmployeeID == targetUserID {
				lr.EmployeeID = anonID
				lr.Reason = redactedText
			}
			if lr.DeciderID == targetUserID {
				lr.DeciderID = anonID
			}
			return nil
		}); err != nil {
			return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to anonymize leave request")
		}
		updated++
	}

	documents, err := s.documents.List(ctx)
	if err != nil {
		return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan document requests")
	}
	for _, r := range documents {
		if r.EmployeeID != targetUserID && r.FulfillerID != targetUserID {
			continue
		}
		if _, err := s.documents.Mutate(ctx, r.ID, func(dr *workflow.DocumentRequest) error {
			if dr.EmployeeID == targetUserID {
				dr.EmployeeID = anonID
				dr.Purpose = redactedText
			}
			if dr.FulfillerID == targetUserID {
				dr.FulfillerID = anonID
			}
			return nil
		}); err != nil {
			return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to anonymize document request")
		}
		updated++
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan onboarding tasks")
	}
	for _, t := range tasks {
		if t.EmployeeID != targetUserID {
			continue
		}
		if _, err := s.tasks.Mutate(ctx, t.ID, func(ot *workflow.OnboardingTask) error {
			ot.EmployeeID = anonID
			return nil
		}); err != nil {
			return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to anonymize onboarding task")
		}
		updated++
	}

	feedbackRewritten, err := s.feedback.ReplaceSubmitter(ctx, targetUserID, anonID)
	if err != nil {
		return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to anonymize feedback")
	}
	updated += feedbackRewritten

	eventsRewritten, err := s.events.ReplaceActor(ctx, targetUserID, anonID)
	if err != nil {
		return ErasureResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to anonymize event log")
	}
	updated += eventsRewritten

	result := ErasureResult{
		UserID:         targetUserID,
		AnonymizedID:   anonID,
		RecordsUpdated: updated,
		ErasedAt:       time.Now().UTC(),
	}
	s.logger.InfoContext(ctx, "subject erased",
		"anonymized_id", anonID,
		"records_updated", updated,
	)

	if err := s.emitGovernanceEvent(ctx, actor, "erasure", map[string]string{
		"target_user_id":  targetUserID,
		"records_updated": strconv.Itoa(updated),
	}); err != nil {
		return ErasureResult{}, err
	}
	return result, nil
}

// RetentionCleanup removes events older than the window and redacts free
// text on decided leave and fulfilled document records past the cutoff.
// Event removal is destructive: KPIs computed afterwards see only the
// retained window. HR only.
func (s *Service) RetentionCleanup(ctx context.Context, actor identity.User, input RetentionInput) (RetentionResult, error) {
	if err := identity.RequireRole(actor, identity.RoleHR); err != nil {
		return RetentionResult{}, err
	}
	if input.RetentionDays < s.minRetentionDays {
		return RetentionResult{}, dErrors.Newf(dErrors.CodeBadRequest, "retention period must be at least %d days", s.minRetentionDays)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -input.RetentionDays)
	redacted := 0

	leaves, err := s.leaves.List(ctx)
	if err != nil {
		return RetentionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan leave requests")
	}
	for _, r := range leaves {
		if r.Status == workflow.LeaveStatusPending || r.DecidedAt == nil || !r.DecidedAt.Before(cutoff) {
			continue
		}
		if r.Reason == retentionText {
			continue
		}
		if _, err := s.leaves.Mutate(ctx, r.ID, func(lr *workflow.LeaveRequest) error {
			lr.Reason = retentionText
			lr.DecisionNotes = retentionText
			return nil
		}); err != nil {
			return RetentionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to redact leave request")
		}
		redacted++
	}

	documents, err := s.documents.List(ctx)
	if err != nil {
		return RetentionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan document requests")
	}
	for _, r := range documents {
		if r.FulfilledAt == nil || !r.FulfilledAt.Before(cutoff) || r.Purpose == retentionText {
			continue
		}
		if _, err := s.documents.Mutate(ctx, r.ID, func(dr *workflow.DocumentRequest) error {
			dr.Purpose = retentionText
			return nil
		}); err != nil {
			return RetentionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to redact document request")
		}
		redacted++
	}

	removed, err := s.events.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return RetentionResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to prune event log")
	}

	result := RetentionResult{
		RetentionDays:   input.RetentionDays,
		RemovedEvents:   removed,
		RedactedRecords: redacted,
	}
	s.logger.InfoContext(ctx, "retention cleanup complete",
		"retention_days", input.RetentionDays,
		"removed_events", removed,
		"redacted_records", redacted,
	)

	if err := s.emitGovernanceEvent(ctx, actor, "retention_cleanup", map[string]string{
		"retention_days":   strconv.Itoa(input.RetentionDays),
		"removed_events":   strconv.Itoa(removed),
		"redacted_records": strconv.Itoa(redacted),
	}); err != nil {
		return RetentionResult{}, err
	}
	return result, nil
}

func (s *Service) emitGovernanceEvent(ctx context.Context, actor identity.User, action string, details map[string]string) error {
	s.metrics.IncGovernanceAction(action)
	if details == nil {
		details = map[string]string{}
	}
	details["action"] = action
	err := s.recorder.Record(ctx, analytics.Event{
		ActorID:   actor.ID,
		ActorRole: actor.Role.String(),
		Type:      analytics.EventTypeGovernanceAction,
		Details:   details,
	})
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record governance event")
}
