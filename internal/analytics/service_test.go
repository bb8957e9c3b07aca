package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFeedback struct {
	total    int
	accurate int
}

func (f staticFeedback) CountFeedback(context.Context) (int, int, error) {
	return f.total, f.accurate, nil
}

func appendEvent(t *testing.T, store *InMemoryEventStore, e Event) {
	t.Helper()
	_, err := store.Append(context.Background(), e)
	require.NoError(t, err)
}

func TestComputeEmptyLog(t *testing.T) {
	store := NewInMemoryEventStore()
	svc, err := New(store, staticFeedback{})
	require.NoError(t, err)

	report, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Usage.TotalQueries)
	assert.Zero(t, report.Usage.UniqueUsers)
	assert.Zero(t, report.Accuracy.AccuracyRate)
	assert.Zero(t, report.Automation.AutomationRate)
}

func TestComputeUsage(t *testing.T) {
	store := NewInMemoryEventStore()
	appendEvent(t, store, Event{ActorID: "u-emp-001", ActorRole: "EMPLOYEE", Type: EventTypeQuery})
	appendEvent(t, store, Event{ActorID: "u-emp-001", ActorRole: "EMPLOYEE", Type: EventTypeQuery})
	appendEvent(t, store, Event{ActorID: "u-mgr-001", ActorRole: "MANAGER", Type: EventTypeQuery})
	// Logins and governance actions do not count as usage.
	appendEvent(t, store, Event{ActorID: "u-hr-001", ActorRole: "HR_ADMIN", Type: EventTypeAuthLogin})
	appendEvent(t, store, Event{ActorID: "u-hr-001", ActorRole: "HR_ADMIN", Type: EventTypeGovernanceAction})

	svc, err := New(store, staticFeedback{})
	require.NoError(t, err)
	report, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Usage.TotalQueries)
	assert.Equal(t, 2, report.Usage.UniqueUsers)
	assert.Equal(t, 2, report.Usage.QueriesByRole["EMPLOYEE"])
	assert.Equal(t, 1, report.Usage.QueriesByRole["MANAGER"])
}

func TestComputeAutomationRate(t *testing.T) {
	store := NewInMemoryEventStore()
	appendEvent(t, store, Event{Type: EventTypeWorkflowAction, Automated: false, Details: map[string]string{"action": "leave_created"}})
	appendEvent(t, store, Event{Type: EventTypeWorkflowAction, Automated: false, Details: map[string]string{"action": "leave_decided"}})
	appendEvent(t, store, Event{Type: EventTypeWorkflowAction, Automated: true, Details: map[string]string{"action": "onboarding_triggered"}})

	svc, err := New(store, staticFeedback{})
	require.NoError(t, err)
	report, err := svc.Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Automation.TotalWorkflowActions)
	assert.Equal(t, 1, report.Automation.AutomatedActions)
	assert.InDelta(t, 0.3333, report.Automation.AutomationRate, 0.00005)
	assert.GreaterOrEqual(t, report.Automation.AutomationRate, 0.0)
	assert.LessOrEqual(t, report.Automation.AutomationRate, 1.0)
}

func TestComputeAccuracyRate(t *testing.T) {
	svc, err := New(NewInMemoryEventStore(), staticFeedback{total: 4, accurate: 3})
	require.NoError(t, err)

	report, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Accuracy.FeedbackSamples)
	assert.Equal(t, 0.75, report.Accuracy.AccuracyRate)
}

func TestRecent(t *testing.T) {
	store := NewInMemoryEventStore()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		appendEvent(t, store, Event{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			ActorID:   "u-emp-001",
			Type:      EventTypeQuery,
		})
	}

	svc, err := New(store, staticFeedback{})
	require.NoError(t, err)

	recent, err := svc.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "evt-000004", recent[0].ID)
	assert.Equal(t, "evt-000005", recent[1].ID)

	all, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestComputeAfterRetentionPrune(t *testing.T) {
	store := NewInMemoryEventStore()
	old := time.Now().UTC().AddDate(0, 0, -90)
	appendEvent(t, store, Event{Timestamp: old, ActorID: "u-emp-001", ActorRole: "EMPLOYEE", Type: EventTypeQuery})
	appendEvent(t, store, Event{ActorID: "u-emp-002", ActorRole: "EMPLOYEE", Type: EventTypeQuery})

	removed, err := store.DeleteOlderThan(context.Background(), time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	svc, err := New(store, staticFeedback{})
	require.NoError(t, err)
	report, err := svc.Compute(context.Background())
	require.NoError(t, err)

	// KPIs fold only the retained window.
	assert.Equal(t, 1, report.Usage.TotalQueries)
	assert.Equal(t, 1, report.Usage.UniqueUsers)
}
