package entry

import (
	"context"

	"centavo/internal/domain/access"
)

// Service contains the business logic for account entries.
type Service struct {
	repo Repository
	eval *access.Evaluator
}

// NewService creates a new entry service.
func NewService(repo Repository, eval *access.Evaluator) *Service {
	return &Service{repo: repo, eval: eval}
}

// CreateEntry records an entry under an account. Accounts have no
// write-sharing, so only the owner may create entries.
func (s *Service) CreateEntry(ctx context.Context, userID int64, params CreateParams) (*Entry, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.eval.CanWrite(ctx, userID, access.Resource{Kind: access.KindAccount, ID: params.AccountID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.Create(ctx, userID, params)
}

// ListEntries retrieves an account's entries for any member.
func (s *Service) ListEntries(ctx context.Context, userID, accountID int64) ([]*Entry, error) {
	ok, err := s.eval.CanRead(ctx, userID, access.Resource{Kind: access.KindAccount, ID: accountID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.ListByAccountID(ctx, accountID)
}
