package identity

import (
	"context"
	"sync"

	"peopledesk/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in a map plus an insertion-order slice so
// listings are deterministic. It intentionally favors clarity over
// performance.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*User
	order []string
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]*User)}
}

func (s *InMemoryUserStore) Save(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.ID]; exists {
		return sentinel.ErrConflict
	}
	u := user
	s.users[user.ID] = &u
	s.order = append(s.order, user.ID)
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return cloneUser(*user), nil
	}
	return User{}, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) FindByUsername(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if s.users[id].Username == username {
			return cloneUser(*s.users[id]), nil
		}
	}
	return User{}, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) List(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneUser(*s.users[id]))
	}
	return out, nil
}

func (s *InMemoryUserStore) Update(_ context.Context, id string, fn func(*User) error) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return User{}, sentinel.ErrNotFound
	}
	updated := cloneUser(*user)
	if err := fn(&updated); err != nil {
		return User{}, err
	}
	*user = updated
	return cloneUser(updated), nil
}

// cloneUser copies the slice field so callers cannot mutate stored state.
func cloneUser(u User) User {
	if u.TeamMembers != nil {
		u.TeamMembers = append([]string(nil), u.TeamMembers...)
	}
	return u
}
