package entry

import (
	"errors"
	"time"
)

// Entry types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Domain errors
var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrForbidden     = errors.New("access forbidden")
	ErrInvalidType   = errors.New("entry type must be income or expense")
)

// Entry is a categorized financial record under an account.
type Entry struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"accountId"`
	UserID      int64     `json:"userId"`
	CategoryID  *int64    `json:"categoryId,omitempty"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	EntryDate   time.Time `json:"entryDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new entry.
type CreateParams struct {
	AccountID   int64
	CategoryID  *int64
	Type        string
	Amount      float64
	Description string
	EntryDate   time.Time
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.AccountID <= 0 {
		return errors.New("valid account ID is required")
	}
	if p.Type != TypeIncome && p.Type != TypeExpense {
		return ErrInvalidType
	}
	if p.EntryDate.IsZero() {
		return errors.New("entry date is required")
	}
	return nil
}
