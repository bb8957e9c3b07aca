package workflow

import "context"

// Stores assign monotonic IDs at creation and iterate in insertion order.
// Mutate applies fn to the stored record while holding the store lock, so
// two concurrent decisions on the same record serialize: the second sees the
// state the first left behind and can refuse the transition. fn receives a
// copy that is committed only when it returns nil.

type LeaveStore interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	FindByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context) ([]LeaveRequest, error)
	Mutate(ctx context.Context, id string, fn func(*LeaveRequest) error) (LeaveRequest, error)
}

type DocumentStore interface {
	Create(ctx context.Context, request DocumentRequest) (DocumentRequest, error)
	FindByID(ctx context.Context, id string) (DocumentRequest, error)
	List(ctx context.Context) ([]DocumentRequest, error)
	Mutate(ctx context.Context, id string, fn func(*DocumentRequest) error) (DocumentRequest, error)
}

type TaskStore interface {
	Create(ctx context.Context, task OnboardingTask) (OnboardingTask, error)
	FindByID(ctx context.Context, id string) (OnboardingTask, error)
	List(ctx context.Context) ([]OnboardingTask, error)
	Mutate(ctx context.Context, id string, fn func(*OnboardingTask) error) (OnboardingTask, error)
}
