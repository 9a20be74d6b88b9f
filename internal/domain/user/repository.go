package user

import "context"

// Repository defines the interface for user data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	// Create creates a new user. Returns ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, params CreateParams) (*User, error)

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// List retrieves all users.
	List(ctx context.Context) ([]*User, error)

	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, id int64) error
}
