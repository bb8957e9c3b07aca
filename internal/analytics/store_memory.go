package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// InMemoryEventStore holds the event log as an ordered slice guarded by one
// mutex. IDs are monotonic so ordering survives serialization.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events []Event
	seq    int
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{}
}

func (s *InMemoryEventStore) Append(_ context.Context, event Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	event.ID = fmt.Sprintf("evt-%06d", s.seq)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	s.events = append(s.events, cloneEvent(event))
	return event, nil
}

func (s *InMemoryEventStore) List(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

func (s *InMemoryEventStore) ListByActor(_ context.Context, actorID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.ActorID == actorID {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (s *InMemoryEventStore) ReplaceActor(_ context.Context, actorID, replacement string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rewritten := 0
	for i := range s.events {
		if s.events[i].ActorID == actorID {
			s.events[i].ActorID = replacement
			rewritten++
		}
	}
	return rewritten, nil
}

func (s *InMemoryEventStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[:0]
	removed := 0
	for _, e := range s.events {
		if e.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return removed, nil
}

func cloneEvent(e Event) Event {
	if e.Details != nil {
		details := make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			details[k] = v
		}
		e.Details = details
	}
	return e
}
