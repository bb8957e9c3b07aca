package policy

import "context"

// ResponseStore keeps recent answers so feedback can validate response IDs.
// Implementations may expire entries; feedback on an expired response is a
// not-found fault, same as an unknown one.
type ResponseStore interface {
	Save(ctx context.Context, response Response) error
	FindByID(ctx context.Context, id string) (Response, error)
}

// FeedbackStore is the append-only feedback log. It also feeds the accuracy
// KPI and the governance export/erasure paths.
type FeedbackStore interface {
	Append(ctx context.Context, feedback Feedback) (Feedback, error)
	ListBySubmitter(ctx context.Context, submitterID string) ([]Feedback, error)
	// CountFeedback returns the total and accurate tallies for the KPI fold.
	CountFeedback(ctx context.Context) (total int, accurate int, err error)
	// ReplaceSubmitter rewrites the submitter ID on matching records,
	// preserving counts and timestamps. Returns the number rewritten.
	ReplaceSubmitter(ctx context.Context, submitterID, replacement string) (int, error)
}
