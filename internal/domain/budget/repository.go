package budget

import (
	"context"

	"centavo/internal/domain/access"
)

// Repository defines the interface for budget, share, category and
// transaction data access.
type Repository interface {
	// Create creates a budget owned by ownerID.
	Create(ctx context.Context, ownerID int64, name string) (*Budget, error)

	// GetByID retrieves a budget by its ID.
	GetByID(ctx context.Context, id int64) (*Budget, error)

	// ListAccessible retrieves all budgets the user owns or is shared on.
	ListAccessible(ctx context.Context, userID int64) ([]*Budget, error)

	// Delete removes the budget together with its shares, categories and
	// transactions in a single transaction.
	Delete(ctx context.Context, id int64) error

	// Share creates or updates a share record. Granting an existing share
	// again updates only the write flag.
	Share(ctx context.Context, budgetID, userID int64, canWrite bool) (*Share, error)

	// Level resolves a user's permission level on a budget for the access
	// evaluator.
	Level(ctx context.Context, userID, budgetID int64) (access.Level, error)

	// CreateCategory creates a category under a budget.
	CreateCategory(ctx context.Context, budgetID int64, name string) (*Category, error)

	// GetCategory retrieves a category by ID. Returns ErrCategoryNotFound
	// when no such category exists.
	GetCategory(ctx context.Context, id int64) (*Category, error)

	// ListCategories retrieves all categories of a budget.
	ListCategories(ctx context.Context, budgetID int64) ([]*Category, error)

	// CreateTransaction creates a transaction under a category.
	CreateTransaction(ctx context.Context, params CreateTransactionParams) (*Transaction, error)

	// ListTransactions retrieves all transactions of a category.
	ListTransactions(ctx context.Context, categoryID int64) ([]*Transaction, error)
}
