package account

import (
	"context"

	"centavo/internal/domain/access"
)

// Repository defines the interface for account data access.
// This interface is defined in the domain layer, but implemented in the
// infrastructure layer.
type Repository interface {
	// Create creates the account and its owner membership in a single
	// transaction; an account is never observable without an owner.
	Create(ctx context.Context, params CreateParams, ownerID int64) (*Account, error)

	// GetByID retrieves an account by its ID.
	GetByID(ctx context.Context, id int64) (*Account, error)

	// ListByUserID retrieves all accounts the user is a member of.
	ListByUserID(ctx context.Context, userID int64) ([]*Account, error)

	// NameTakenByUser reports whether the user already has an account
	// with this name.
	NameTakenByUser(ctx context.Context, userID int64, name string) (bool, error)

	// Update updates account fields.
	Update(ctx context.Context, id int64, params UpdateParams) (*Account, error)

	// Delete removes the account and all of its memberships in a single
	// transaction; no orphaned membership rows may persist.
	Delete(ctx context.Context, id int64) error

	// AddMember adds a non-owner membership. Adding an existing member
	// returns the existing record unchanged.
	AddMember(ctx context.Context, accountID, userID int64, role string) (*Membership, error)

	// RemoveMember removes a non-owner membership. Returns false when the
	// target membership carries the owner flag or does not exist.
	RemoveMember(ctx context.Context, accountID, userID int64) (bool, error)

	// ListMembers retrieves all members of an account, owner first.
	ListMembers(ctx context.Context, accountID int64) ([]*Member, error)

	// Level resolves a user's permission level on an account for the
	// access evaluator.
	Level(ctx context.Context, userID, accountID int64) (access.Level, error)
}
