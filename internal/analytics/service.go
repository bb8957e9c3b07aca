package analytics

import (
	"context"
	"fmt"
	"math"

	dErrors "peopledesk/pkg/domain-errors"
)

// FeedbackCounter supplies the feedback tallies the accuracy metric folds
// over. The policy feedback store implements it; the indirection keeps this
// package free of policy imports.
type FeedbackCounter interface {
	CountFeedback(ctx context.Context) (total int, accurate int, err error)
}

// Service derives KPIs from the event log. It holds no cached or incremental
// state: every Compute call is a fresh O(n) fold so retention cleanup simply
// shrinks future input.
type Service struct {
	events   EventStore
	feedback FeedbackCounter
}

func New(events EventStore, feedback FeedbackCounter) (*Service, error) {
	if events == nil {
		return nil, fmt.Errorf("event store is required")
	}
	if feedback == nil {
		return nil, fmt.Errorf("feedback counter is required")
	}
	return &Service{events: events, feedback: feedback}, nil
}

// Compute folds the event log into the KPI report. Rates are always in
// [0,1] and 0 when their denominators are 0.
func (s *Service) Compute(ctx context.Context) (KPIReport, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return KPIReport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read event log")
	}

	usage := UsageMetrics{QueriesByRole: map[string]int{}}
	actors := map[string]bool{}
	totalActions := 0
	automated := 0

	for _, e := range events {
		switch e.Type {
		case EventTypeQuery:
			usage.TotalQueries++
			usage.QueriesByRole[e.ActorRole]++
			actors[e.ActorID] = true
		case EventTypeWorkflowAction:
			totalActions++
			if e.Automated {
				automated++
			}
		}
	}
	usage.UniqueUsers = len(actors)

	feedbackTotal, feedbackAccurate, err := s.feedback.CountFeedback(ctx)
	if err != nil {
		return KPIReport{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count feedback")
	}

	return KPIReport{
		Usage: usage,
		Accuracy: AccuracyMetrics{
			FeedbackSamples: feedbackTotal,
			AccuracyRate:    rate(feedbackAccurate, feedbackTotal),
		},
		Automation: AutomationMetrics{
			TotalWorkflowActions: totalActions,
			AutomatedActions:     automated,
			AutomationRate:       rate(automated, totalActions),
		},
	}, nil
}

// Recent returns the newest events up to limit, oldest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read event log")
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}

func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Round(float64(numerator)/float64(denominator)*10000) / 10000
}
