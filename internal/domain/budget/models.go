package budget

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrBudgetNotFound   = errors.New("budget not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrForbidden        = errors.New("access forbidden")
)

// Budget is a sharable container of categories and transactions. The
// creating user is recorded as owner on the row; additional users attach
// through Share records. Its name is encrypted at rest.
type Budget struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Share grants a non-owner user access to a budget: read always, write
// when the flag is set.
type Share struct {
	BudgetID int64 `json:"budgetId"`
	UserID   int64 `json:"userId"`
	CanWrite bool  `json:"canWrite"`
}

// Category groups transactions within a budget. Its name is encrypted
// at rest.
type Category struct {
	ID       int64  `json:"id"`
	BudgetID int64  `json:"budgetId"`
	Name     string `json:"name"`
}

// Transaction is an expense or income line under a category. Amount and
// note are encrypted at rest.
type Transaction struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"categoryId"`
	Amount     float64   `json:"amount"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateTransactionParams contains parameters for creating a transaction.
type CreateTransactionParams struct {
	CategoryID int64
	Amount     float64
	Note       *string
}

// Validate validates the transaction parameters.
func (p CreateTransactionParams) Validate() error {
	if p.CategoryID <= 0 {
		return errors.New("valid category ID is required")
	}
	return nil
}
