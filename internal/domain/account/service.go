package account

import (
	"context"
	"errors"
	"fmt"

	"centavo/internal/domain/access"
)

// Service contains the business logic for account operations.
// Every operation that reads or mutates a shared account consults the
// access evaluator before touching storage.
type Service struct {
	repo Repository
	eval *access.Evaluator
}

// NewService creates a new account service.
func NewService(repo Repository, eval *access.Evaluator) *Service {
	return &Service{repo: repo, eval: eval}
}

func resource(accountID int64) access.Resource {
	return access.Resource{Kind: access.KindAccount, ID: accountID}
}

// CreateAccount creates an account owned by userID. The owner membership
// lands in the same transaction as the account row.
func (s *Service) CreateAccount(ctx context.Context, userID int64, params CreateParams) (*Account, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.NameTakenByUser(ctx, userID, params.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, params.Name)
	}

	return s.repo.Create(ctx, params, userID)
}

// GetAccount retrieves an account the user has read access to.
// Callers without any membership get ErrForbidden, not ErrAccountNotFound.
func (s *Service) GetAccount(ctx context.Context, userID, accountID int64) (*Account, error) {
	ok, err := s.eval.CanRead(ctx, userID, resource(accountID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.GetByID(ctx, accountID)
}

// ListAccounts retrieves all accounts the user is a member of.
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]*Account, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}

// UpdateAccount updates account fields. Account mutation is
// ownership-exclusive: members have read-only visibility.
func (s *Service) UpdateAccount(ctx context.Context, userID, accountID int64, params UpdateParams) (*Account, error) {
	ok, err := s.eval.CanWrite(ctx, userID, resource(accountID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.Update(ctx, accountID, params)
}

// DeleteAccount deletes the account and all of its memberships. Only the
// owner may delete.
func (s *Service) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	ok, err := s.eval.IsOwner(ctx, userID, resource(accountID))
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, accountID)
}

// AddMember grants memberUserID read-only membership. Only the owner may
// add members; adding an existing member returns the existing record.
func (s *Service) AddMember(ctx context.Context, callerID, accountID, memberUserID int64) (*Membership, error) {
	ok, err := s.eval.IsOwner(ctx, callerID, resource(accountID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.AddMember(ctx, accountID, memberUserID, "member")
}

// RemoveMember removes a membership. The owner membership is never
// removable through this path: the result is false, not an error.
func (s *Service) RemoveMember(ctx context.Context, callerID, accountID, memberUserID int64) (bool, error) {
	ok, err := s.eval.IsOwner(ctx, callerID, resource(accountID))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrForbidden
	}

	return s.repo.RemoveMember(ctx, accountID, memberUserID)
}

// ListMembers retrieves the members of an account the user can read.
func (s *Service) ListMembers(ctx context.Context, userID, accountID int64) ([]*Member, error) {
	ok, err := s.eval.CanRead(ctx, userID, resource(accountID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.ListMembers(ctx, accountID)
}
