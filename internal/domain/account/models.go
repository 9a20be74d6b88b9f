package account

import (
	"errors"
	"time"
)

// Common ISO 4217 currency codes
var validCurrencies = map[string]struct{}{
	"BRL": {}, "USD": {}, "EUR": {}, "GBP": {}, "JPY": {},
	"CHF": {}, "CAD": {}, "AUD": {}, "NZD": {}, "CNY": {},
	"INR": {}, "MXN": {}, "ZAR": {}, "SEK": {}, "NOK": {},
	"DKK": {}, "PLN": {}, "TRY": {}, "RUB": {}, "KRW": {},
	"SGD": {}, "HKD": {}, "ARS": {}, "CLP": {}, "COP": {},
}

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrDuplicateName   = errors.New("account with this name already exists")
	ErrInvalidCurrency = errors.New("valid ISO 4217 currency is required")
)

// Account represents a financial account. Ownership lives in the
// membership table, never on the account row itself.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CurrencyCode string    `json:"currencyCode"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Membership links a user to an account. Exactly one membership per
// account carries the owner flag, and that one cannot be removed.
type Membership struct {
	AccountID int64     `json:"accountId"`
	UserID    int64     `json:"userId"`
	Role      string    `json:"role"`
	IsOwner   bool      `json:"isOwner"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// Member is a membership joined with user details, for listing.
type Member struct {
	UserID   int64     `json:"userId"`
	Email    string    `json:"email"`
	Name     string    `json:"name,omitempty"`
	Role     string    `json:"role"`
	IsOwner  bool      `json:"isOwner"`
	JoinedAt time.Time `json:"joinedAt"`
}

// CreateParams contains parameters for creating a new account.
type CreateParams struct {
	Name         string
	CurrencyCode string
	Description  string
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.Name == "" {
		return errors.New("account name is required")
	}
	if p.CurrencyCode == "" {
		return errors.New("currency is required")
	}
	if !IsValidCurrency(p.CurrencyCode) {
		return ErrInvalidCurrency
	}
	return nil
}

// UpdateParams contains parameters for updating an account.
type UpdateParams struct {
	Name        *string
	Description *string
}

// IsValidCurrency checks if the provided currency is a valid ISO 4217 code.
func IsValidCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	_, ok := validCurrencies[c]
	return ok
}
