package policy

import (
	"strings"
	"time"

	dErrors "peopledesk/pkg/domain-errors"
)

// Document is one entry of the static policy dataset loaded at startup.
type Document struct {
	ID       string   `json:"policy_id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Audience string   `json:"audience"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
}

// Citation names a policy document an answer was grounded on.
type Citation struct {
	PolicyID string `json:"policy_id"`
	Title    string `json:"title"`
}

// QueryResponse is the answer returned to a policy question.
type QueryResponse struct {
	ResponseID       string     `json:"response_id"`
	Answer           string     `json:"answer"`
	Confidence       float64    `json:"confidence"`
	Citations        []Citation `json:"citations"`
	GovernanceNotice string     `json:"governance_notice"`
}

// Response is the stored record of an answered question, kept so feedback
// can validate response IDs. The question is sanitized before storage.
type Response struct {
	ResponseID string    `json:"response_id"`
	UserID     string    `json:"user_id"`
	Question   string    `json:"question"`
	Citations  []string  `json:"citations"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// Feedback is an append-only accuracy rating for a prior answer.
type Feedback struct {
	ID          string    `json:"feedback_id"`
	ResponseID  string    `json:"response_id"`
	SubmitterID string    `json:"submitter_id"`
	Accurate    bool      `json:"accurate"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// QueryInput is a policy question from an authenticated user.
type QueryInput struct {
	Question string `json:"question"`
}

func (in QueryInput) Validate() error {
	q := strings.TrimSpace(in.Question)
	if len(q) < 3 || len(q) > 500 {
		return dErrors.New(dErrors.CodeBadRequest, "question must be between 3 and 500 characters")
	}
	return nil
}

// FeedbackInput rates a prior answer.
type FeedbackInput struct {
	ResponseID string `json:"response_id"`
	Accurate   bool   `json:"accurate"`
	Comment    string `json:"comment,omitempty"`
}

func (in FeedbackInput) Validate() error {
	if in.ResponseID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "response_id is required")
	}
	if len(in.Comment) > 500 {
		return dErrors.New(dErrors.CodeBadRequest, "comment must be at most 500 characters")
	}
	return nil
}
