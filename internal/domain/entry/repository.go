package entry

import "context"

// Repository defines the interface for entry data access.
type Repository interface {
	// Create creates a new entry recorded against userID.
	Create(ctx context.Context, userID int64, params CreateParams) (*Entry, error)

	// ListByAccountID retrieves all entries for an account, newest first.
	ListByAccountID(ctx context.Context, accountID int64) ([]*Entry, error)
}
