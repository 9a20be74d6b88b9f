package budget

import (
	"context"
	"errors"

	"centavo/internal/domain/access"
)

// Service contains the business logic for budgets, categories and
// transactions.
type Service struct {
	repo Repository
	eval *access.Evaluator
}

// NewService creates a new budget service.
func NewService(repo Repository, eval *access.Evaluator) *Service {
	return &Service{repo: repo, eval: eval}
}

func resource(budgetID int64) access.Resource {
	return access.Resource{Kind: access.KindBudget, ID: budgetID}
}

// CreateBudget creates a budget owned by the caller.
func (s *Service) CreateBudget(ctx context.Context, ownerID int64, name string) (*Budget, error) {
	if name == "" {
		return nil, errors.New("budget name is required")
	}
	return s.repo.Create(ctx, ownerID, name)
}

// ListBudgets retrieves all budgets the user owns or is shared on.
func (s *Service) ListBudgets(ctx context.Context, userID int64) ([]*Budget, error) {
	return s.repo.ListAccessible(ctx, userID)
}

// DeleteBudget removes a budget and everything under it. Owner only.
func (s *Service) DeleteBudget(ctx context.Context, userID, budgetID int64) error {
	ok, err := s.eval.IsOwner(ctx, userID, resource(budgetID))
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, budgetID)
}

// ShareBudget grants a user read (and optionally write) access.
// It does NOT verify the caller owns the budget; the HTTP layer runs
// that check through the evaluator before calling here.
func (s *Service) ShareBudget(ctx context.Context, budgetID, userID int64, canWrite bool) (*Share, error) {
	if _, err := s.repo.GetByID(ctx, budgetID); err != nil {
		return nil, err
	}
	return s.repo.Share(ctx, budgetID, userID, canWrite)
}

// IsOwner reports whether userID owns the budget. Exposed for the HTTP
// layer's share-authorization check.
func (s *Service) IsOwner(ctx context.Context, userID, budgetID int64) (bool, error) {
	return s.eval.IsOwner(ctx, userID, resource(budgetID))
}

// CreateCategory adds a category to a budget for users with write access.
func (s *Service) CreateCategory(ctx context.Context, userID, budgetID int64, name string) (*Category, error) {
	if name == "" {
		return nil, errors.New("category name is required")
	}

	ok, err := s.eval.CanWrite(ctx, userID, resource(budgetID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.CreateCategory(ctx, budgetID, name)
}

// ListCategories retrieves a budget's categories for any reader.
func (s *Service) ListCategories(ctx context.Context, userID, budgetID int64) ([]*Category, error) {
	ok, err := s.eval.CanRead(ctx, userID, resource(budgetID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.ListCategories(ctx, budgetID)
}

// CreateTransaction records a transaction under a category. The category
// resolves to its budget for the write check; a missing category is
// NotFound because no access decision can be made without it.
func (s *Service) CreateTransaction(ctx context.Context, userID int64, params CreateTransactionParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}

	ok, err := s.eval.CanWrite(ctx, userID, resource(category.BudgetID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.CreateTransaction(ctx, params)
}

// ListTransactions retrieves a category's transactions for any reader of
// its budget.
func (s *Service) ListTransactions(ctx context.Context, userID, categoryID int64) ([]*Transaction, error) {
	category, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	ok, err := s.eval.CanRead(ctx, userID, resource(category.BudgetID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	return s.repo.ListTransactions(ctx, categoryID)
}
