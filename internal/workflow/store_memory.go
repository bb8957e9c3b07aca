package workflow

import (
	"context"
	"fmt"
	"sync"

	"peopledesk/pkg/platform/sentinel"
)

// The in-memory stores share one shape: a map for lookup, an order slice for
// insertion-ordered iteration and a sequence counter for monotonic IDs. One
// mutex per store serializes status mutations.

type InMemoryLeaveStore struct {
	mu       sync.RWMutex
	requests map[string]*LeaveRequest
	order    []string
	seq      int
}

func NewInMemoryLeaveStore() *InMemoryLeaveStore {
	return &InMemoryLeaveStore{requests: make(map[string]*LeaveRequest)}
}

func (s *InMemoryLeaveStore) Create(_ context.Context, request LeaveRequest) (LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	request.ID = fmt.Sprintf("leave-%06d", s.seq)
	r := request
	s.requests[request.ID] = &r
	s.order = append(s.order, request.ID)
	return request, nil
}

func (s *InMemoryLeaveStore) FindByID(_ context.Context, id string) (LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if request, ok := s.requests[id]; ok {
		return *request, nil
	}
	return LeaveRequest{}, sentinel.ErrNotFound
}

func (s *InMemoryLeaveStore) List(_ context.Context) ([]LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LeaveRequest, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.requests[id])
	}
	return out, nil
}

func (s *InMemoryLeaveStore) Mutate(_ context.Context, id string, fn func(*LeaveRequest) error) (LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return LeaveRequest{}, sentinel.ErrNotFound
	}
	updated := *request
	if err := fn(&updated); err != nil {
		return LeaveRequest{}, err
	}
	*request = updated
	return updated, nil
}

type InMemoryDocumentStore struct {
	mu       sync.RWMutex
	requests map[string]*DocumentRequest
	order    []string
	seq      int
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{requests: make(map[string]*DocumentRequest)}
}

func (s *InMemoryDocumentStore) Create(_ context.Context, request DocumentRequest) (DocumentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	request.ID = fmt.Sprintf("doc-%06d", s.seq)
	r := request
	s.requests[request.ID] = &r
	s.order = append(s.order, request.ID)
	return request, nil
}

func (s *InMemoryDocumentStore) FindByID(_ context.Context, id string) (DocumentRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if request, ok := s.requests[id]; ok {
		return *request, nil
	}
	return DocumentRequest{}, sentinel.ErrNotFound
}

func (s *InMemoryDocumentStore) List(_ context.Context) ([]DocumentRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DocumentRequest, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.requests[id])
	}
	return out, nil
}

func (s *InMemoryDocumentStore) Mutate(_ context.Context, id string, fn func(*DocumentRequest) error) (DocumentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return DocumentRequest{}, sentinel.ErrNotFound
	}
	updated := *request
	if err := fn(&updated); err != nil {
		return DocumentRequest{}, err
	}
	*request = updated
	return updated, nil
}

type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*OnboardingTask
	order []string
	seq   int
}

func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{tasks: make(map[string]*OnboardingTask)}
}

func (s *InMemoryTaskStore) Create(_ context.Context, task OnboardingTask) (OnboardingTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	task.ID = fmt.Sprintf("onb-%06d", s.seq)
	t := task
	s.tasks[task.ID] = &t
	s.order = append(s.order, task.ID)
	return task, nil
}

func (s *InMemoryTaskStore) FindByID(_ context.Context, id string) (OnboardingTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if task, ok := s.tasks[id]; ok {
		return *task, nil
	}
	return OnboardingTask{}, sentinel.ErrNotFound
}

func (s *InMemoryTaskStore) List(_ context.Context) ([]OnboardingTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]OnboardingTask, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.tasks[id])
	}
	return out, nil
}

func (s *InMemoryTaskStore) Mutate(_ context.Context, id string, fn func(*OnboardingTask) error) (OnboardingTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return OnboardingTask{}, sentinel.ErrNotFound
	}
	updated := *task
	if err := fn(&updated); err != nil {
		return OnboardingTask{}, err
	}
	*task = updated
	return updated, nil
}
