package identity

import "context"

// UserStore is interface-driven to keep the domain logic testable and to
// allow swapping persistence without rewiring business code.
type UserStore interface {
	Save(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	FindByUsername(ctx context.Context, username string) (User, error)
	// List returns users in insertion order.
	List(ctx context.Context) ([]User, error)
	// Update applies fn to the stored user under the store lock so
	// concurrent mutations serialize. fn receives a pointer to the stored
	// record; returning an error aborts the update.
	Update(ctx context.Context, id string, fn func(*User) error) (User, error)
}
