package analytics

import (
	"context"
	"time"
)

// EventStore is the append-only event log. Append assigns the event ID;
// events are immutable once written except for the governance operations
// below, which exist so erasure and retention can act on historical entries
// without breaking record counts.
type EventStore interface {
	Append(ctx context.Context, event Event) (Event, error)
	// List returns events in append order.
	List(ctx context.Context) ([]Event, error)
	ListByActor(ctx context.Context, actorID string) ([]Event, error)
	// ReplaceActor rewrites the actor ID on matching events, preserving
	// timestamps and payloads. Returns the number of rewritten events.
	ReplaceActor(ctx context.Context, actorID, replacement string) (int, error)
	// DeleteOlderThan removes events recorded before the cutoff and returns
	// the number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
