package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"peopledesk/internal/analytics"
	"peopledesk/internal/identity"
	"peopledesk/internal/platform/metrics"
	dErrors "peopledesk/pkg/domain-errors"
	"peopledesk/pkg/platform/sentinel"
)

// PurposePolicyAssistance gates policy questions on subject consent.
const PurposePolicyAssistance = "policy_assistance"

// Scoring constants for the lexical matcher. audienceBoost rewards documents
// addressed to the caller's role; tagBoost rewards explicit tag mentions in
// the question; matchThreshold is the confidence floor below which the
// answer escalates to HR.
const (
	audienceBoost  = 0.08
	tagBoost       = 0.03
	matchThreshold = 0.08
)

const governanceNotice = "Output is policy guidance only. Personal data is redacted in analytics logs and subject to GDPR controls."

// ConsentChecker enforces the consent gate before a question is processed.
type ConsentChecker interface {
	RequireConsent(ctx context.Context, user identity.User, purpose string) error
}

// EventRecorder publishes to the append-only event log.
type EventRecorder interface {
	Record(ctx context.Context, event analytics.Event) error
}

// Service answers policy questions with keyword/lexical matching over the
// static dataset and records accuracy feedback against prior answers.
type Service struct {
	documents []Document
	index     *index
	responses ResponseStore
	feedback  FeedbackStore
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
	documents []Document,
	responses ResponseStore,
	feedback FeedbackStore,
	consent ConsentChecker,
	recorder EventRecorder,
	opts ...Option,
) (*Service, error) {
	if len(documents) == 0 {
		return nil, errors.New("policy dataset is required")
	}
	if responses == nil || feedback == nil {
		return nil, errors.New("policy stores are required")
	}
	if consent == nil {
		return nil, errors.New("consent checker is required")
	}
	if recorder == nil {
		return nil, errors.New("event recorder is required")
	}
	svc := &Service{
		documents: documents,
		index:     buildIndex(documents),
		responses: responses,
		feedback:  feedback,
		consent:   consent,
		recorder:  recorder,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ListDocuments returns the full dataset for browsing.
func (s *Service) ListDocuments(_ context.Context) []Document {
	return s.documents
}

// Query answers a policy question for the calling user. The question is
// sanitized before it is stored or logged.
func (s *Service) Query(ctx context.Context, actor identity.User, input QueryInput) (QueryResponse, error) {
	if err := s.consent.RequireConsent(ctx, actor, PurposePolicyAssistance); err != nil {
		return QueryResponse{}, err
	}
	if err := input.Validate(); err != nil {
		return QueryResponse{}, err
	}

	questionVec := tokenize(input.Question)
	questionLower := strings.ToLower(input.Question)

	type scoredDoc struct {
		doc   Document
		score float64
	}
	scored := make([]scoredDoc, 0, len(s.documents))
	for _, doc := range s.documents {
		score := s.index.score(doc.ID, questionVec)
		if strings.Contains(strings.ToLower(doc.Audience), strings.ToLower(actor.Role.String())) {
			score += audienceBoost
		}
		for _, tag := range doc.Tags {
			if strings.Contains(questionLower, strings.ToLower(tag)) {
				score += tagBoost
			}
		}
		scored = append(scored, scoredDoc{doc: doc, score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	top := scored[0]
	var answer string
	var citations []Citation
	var confidence float64
	if top.score < matchThreshold {
		answer = "No direct policy match was found with high confidence. " +
			"Escalate to HR for interpretation and policy exception handling."
		citations = []Citation{{PolicyID: top.doc.ID, Title: top.doc.Title}}
		confidence = round3(math.Max(top.score, 0.2))
	} else {
		answer = fmt.Sprintf("Based on '%s', %s Follow the documented approval chain and record all actions in the HR workflow log.",
			top.doc.Title, top.doc.Content)
		citations = []Citation{{PolicyID: top.doc.ID, Title: top.doc.Title}}
		if len(scored) > 1 && scored[1].score > 0 {
			citations = append(citations, Citation{PolicyID: scored[1].doc.ID, Title: scored[1].doc.Title})
		}
		confidence = round3(math.Min(0.99, top.score+0.25))
	}

	responseID := "pol-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	sanitized := sanitizeQuestion(input.Question)
	citationIDs := make([]string, 0, len(citations))
	for _, c := range citations {
		citationIDs = append(citationIDs, c.PolicyID)
	}

	if err := s.responses.Save(ctx, Response{
		ResponseID: responseID,
		UserID:     actor.ID,
		Question:   sanitized,
		Citations:  citationIDs,
		Confidence: confidence,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		return QueryResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store policy response")
	}

	if s.metrics != nil {
		s.metrics.PolicyQueries.Inc()
	}
	if err := s.recorder.Record(ctx, analytics.Event{
		ActorID:   actor.ID,
		ActorRole: actor.Role.String(),
		Type:      analytics.EventTypeQuery,
		Details: map[string]string{
			"response_id": responseID,
			"question":    sanitized,
			"confidence":  strconv.FormatFloat(confidence, 'f', 3, 64),
			"citations":   strings.Join(citationIDs, ","),
		},
	}); err != nil {
		return QueryResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record query event")
	}

	return QueryResponse{
		ResponseID:       responseID,
		Answer:           answer,
		Confidence:       confidence,
		Citations:        citations,
		GovernanceNotice: governanceNotice,
	}, nil
}

// RecordFeedback appends an accuracy rating for a prior answer.
func (s *Service) RecordFeedback(ctx context.Context, actor identity.User, input FeedbackInput) (Feedback, error) {
	if err := input.Validate(); err != nil {
		return Feedback{}, err
	}
	if _, err := s.responses.FindByID(ctx, input.ResponseID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Feedback{}, dErrors.New(dErrors.CodeNotFound, "response_id not found")
		}
		return Feedback{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up response")
	}

	feedback, err := s.feedback.Append(ctx, Feedback{
		ResponseID:  input.ResponseID,
		SubmitterID: actor.ID,
		Accurate:    input.Accurate,
		Comment:     input.Comment,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Feedback{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store feedback")
	}

	if err := s.recorder.Record(ctx, analytics.Event{
		ActorID:   actor.ID,
		ActorRole: actor.Role.String(),
		Type:      analytics.EventTypeFeedback,
		Details: map[string]string{
			"response_id": input.ResponseID,
			"accurate":    strconv.FormatBool(input.Accurate),
		},
	}); err != nil {
		return Feedback{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record feedback event")
	}

	return feedback, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
