package analytics

import (
	"context"
	"log/slog"
	"time"
)

// Recorder is how domain services publish to the event log. It is append-only
// and uses the store for persistence so tests can swap sinks easily.
type Recorder struct {
	store  EventStore
	logger *slog.Logger
}

func NewRecorder(store EventStore, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record appends one event, stamping the time when the caller left it zero.
func (r *Recorder) Record(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	stored, err := r.store.Append(ctx, event)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to append event",
			"event_type", event.Type,
			"actor_id", event.ActorID,
			"error", err,
		)
		return err
	}
	r.logger.InfoContext(ctx, "event recorded",
		"event_id", stored.ID,
		"event_type", stored.Type,
		"actor_id", stored.ActorID,
	)
	return nil
}
