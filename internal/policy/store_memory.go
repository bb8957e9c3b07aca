package policy

import (
	"context"
	"fmt"
	"sync"

	"peopledesk/pkg/platform/sentinel"
)

type InMemoryResponseStore struct {
	mu        sync.RWMutex
	responses map[string]Response
}

func NewInMemoryResponseStore() *InMemoryResponseStore {
	return &InMemoryResponseStore{responses: make(map[string]Response)}
}

func (s *InMemoryResponseStore) Save(_ context.Context, response Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[response.ResponseID] = response
	return nil
}

func (s *InMemoryResponseStore) FindByID(_ context.Context, id string) (Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if response, ok := s.responses[id]; ok {
		return response, nil
	}
	return Response{}, sentinel.ErrNotFound
}

// InMemoryFeedbackStore keeps feedback in append order with monotonic IDs.
type InMemoryFeedbackStore struct {
	mu       sync.RWMutex
	feedback []Feedback
	seq      int
}

func NewInMemoryFeedbackStore() *InMemoryFeedbackStore {
	return &InMemoryFeedbackStore{}
}

func (s *InMemoryFeedbackStore) Append(_ context.Context, feedback Feedback) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	feedback.ID = fmt.Sprintf("fb-%06d", s.seq)
	s.feedback = append(s.feedback, feedback)
	return feedback, nil
}

func (s *InMemoryFeedbackStore) ListBySubmitter(_ context.Context, submitterID string) ([]Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Feedback
	for _, f := range s.feedback {
		if f.SubmitterID == submitterID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *InMemoryFeedbackStore) CountFeedback(_ context.Context) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accurate := 0
	for _, f := range s.feedback {
		if f.Accurate {
			accurate++
		}
	}
	return len(s.feedback), accurate, nil
}

func (s *InMemoryFeedbackStore) ReplaceSubmitter(_ context.Context, submitterID, replacement string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rewritten := 0
	for i := range s.feedback {
		if s.feedback[i].SubmitterID == submitterID {
			s.feedback[i].SubmitterID = replacement
			rewritten++
		}
	}
	return rewritten, nil
}
