package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"centavo/internal/domain/access"
	"centavo/internal/domain/budget"
	"centavo/internal/infrastructure/crypto"
)

// BudgetRepository implements the budget.Repository interface for
// PostgreSQL. Budget and category names, transaction amounts and notes
// are encrypted before they touch the database and decrypted on scan.
type BudgetRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

// NewBudgetRepository creates a new PostgreSQL budget repository.
func NewBudgetRepository(db *DB, encryptor *crypto.Encryptor) *BudgetRepository {
	return &BudgetRepository{db: db, encryptor: encryptor}
}

// Create creates a budget owned by ownerID.
func (r *BudgetRepository) Create(ctx context.Context, ownerID int64, name string) (*budget.Budget, error) {
	encName, err := r.encryptor.Encrypt(name)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt budget name: %w", err)
	}

	query := `
		INSERT INTO budgets (name_encrypted, owner_id)
		VALUES ($1, $2)
		RETURNING id, owner_id, created_at
	`

	b := budget.Budget{Name: name}
	if err := r.db.QueryRowContext(ctx, query, encName, ownerID).Scan(&b.ID, &b.OwnerID, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return &b, nil
}

// GetByID retrieves a budget by its ID.
func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*budget.Budget, error) {
	query := `
		SELECT id, name_encrypted, owner_id, created_at
		FROM budgets
		WHERE id = $1
	`

	var b budget.Budget
	var encName string

	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &encName, &b.OwnerID, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, budget.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	if b.Name, err = r.encryptor.Decrypt(encName); err != nil {
		return nil, fmt.Errorf("failed to decrypt budget name: %w", err)
	}

	return &b, nil
}

// ListAccessible retrieves all budgets the user owns or is shared on.
func (r *BudgetRepository) ListAccessible(ctx context.Context, userID int64) ([]*budget.Budget, error) {
	query := `
		SELECT DISTINCT b.id, b.name_encrypted, b.owner_id, b.created_at
		FROM budgets b
		LEFT JOIN budget_shares s ON s.budget_id = b.id
		WHERE b.owner_id = $1 OR s.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		var b budget.Budget
		var encName string

		if err := rows.Scan(&b.ID, &encName, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if b.Name, err = r.encryptor.Decrypt(encName); err != nil {
			return nil, fmt.Errorf("failed to decrypt budget name: %w", err)
		}
		budgets = append(budgets, &b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// Delete removes the budget's transactions, categories and shares, then
// the budget itself, as one transaction.
func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM transactions
			WHERE category_id IN (SELECT id FROM categories WHERE budget_id = $1)
		`, id); err != nil {
			return fmt.Errorf("failed to delete budget transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE budget_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete budget categories: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_shares WHERE budget_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete budget shares: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete budget: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read delete result: %w", err)
		}
		if affected == 0 {
			return budget.ErrBudgetNotFound
		}

		return nil
	})
}

// Share creates or updates a share record. The upsert lets a grantor
// promote a read share to write (or demote it) by sharing again.
func (r *BudgetRepository) Share(ctx context.Context, budgetID, userID int64, canWrite bool) (*budget.Share, error) {
	query := `
		INSERT INTO budget_shares (budget_id, user_id, can_write)
		VALUES ($1, $2, $3)
		ON CONFLICT (budget_id, user_id) DO UPDATE SET can_write = EXCLUDED.can_write
		RETURNING budget_id, user_id, can_write
	`

	var s budget.Share
	if err := r.db.QueryRowContext(ctx, query, budgetID, userID, canWrite).Scan(&s.BudgetID, &s.UserID, &s.CanWrite); err != nil {
		return nil, fmt.Errorf("failed to share budget: %w", err)
	}

	return &s, nil
}

// Level resolves a user's permission level on a budget. The row owner is
// owner, a write share is write, a plain share is read.
func (r *BudgetRepository) Level(ctx context.Context, userID, budgetID int64) (access.Level, error) {
	query := `
		SELECT b.owner_id = $1, COALESCE(s.can_write, FALSE), s.user_id IS NOT NULL
		FROM budgets b
		LEFT JOIN budget_shares s ON s.budget_id = b.id AND s.user_id = $1
		WHERE b.id = $2
	`

	var isOwner, canWrite, shared bool
	err := r.db.QueryRowContext(ctx, query, userID, budgetID).Scan(&isOwner, &canWrite, &shared)
	if err == sql.ErrNoRows {
		return access.LevelNone, nil
	}
	if err != nil {
		return access.LevelNone, fmt.Errorf("failed to resolve budget level: %w", err)
	}

	switch {
	case isOwner:
		return access.LevelOwner, nil
	case canWrite:
		return access.LevelWrite, nil
	case shared:
		return access.LevelRead, nil
	default:
		return access.LevelNone, nil
	}
}

// CreateCategory creates a category under a budget.
func (r *BudgetRepository) CreateCategory(ctx context.Context, budgetID int64, name string) (*budget.Category, error) {
	encName, err := r.encryptor.Encrypt(name)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt category name: %w", err)
	}

	query := `
		INSERT INTO categories (budget_id, name_encrypted)
		VALUES ($1, $2)
		RETURNING id, budget_id
	`

	c := budget.Category{Name: name}
	if err := r.db.QueryRowContext(ctx, query, budgetID, encName).Scan(&c.ID, &c.BudgetID); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &c, nil
}

// GetCategory retrieves a category by ID.
func (r *BudgetRepository) GetCategory(ctx context.Context, id int64) (*budget.Category, error) {
	query := `
		SELECT id, budget_id, name_encrypted
		FROM categories
		WHERE id = $1
	`

	var c budget.Category
	var encName string

	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.BudgetID, &encName)
	if err == sql.ErrNoRows {
		return nil, budget.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if c.Name, err = r.encryptor.Decrypt(encName); err != nil {
		return nil, fmt.Errorf("failed to decrypt category name: %w", err)
	}

	return &c, nil
}

// ListCategories retrieves all categories of a budget.
func (r *BudgetRepository) ListCategories(ctx context.Context, budgetID int64) ([]*budget.Category, error) {
	query := `
		SELECT id, budget_id, name_encrypted
		FROM categories
		WHERE budget_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*budget.Category
	for rows.Next() {
		var c budget.Category
		var encName string

		if err := rows.Scan(&c.ID, &c.BudgetID, &encName); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if c.Name, err = r.encryptor.Decrypt(encName); err != nil {
			return nil, fmt.Errorf("failed to decrypt category name: %w", err)
		}
		categories = append(categories, &c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// CreateTransaction creates a transaction under a category.
func (r *BudgetRepository) CreateTransaction(ctx context.Context, params budget.CreateTransactionParams) (*budget.Transaction, error) {
	encAmount, err := r.encryptor.Encrypt(strconv.FormatFloat(params.Amount, 'f', -1, 64))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt transaction amount: %w", err)
	}

	var note string
	if params.Note != nil {
		note = *params.Note
	}
	encNote, err := r.encryptor.Encrypt(note)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt transaction note: %w", err)
	}

	query := `
		INSERT INTO transactions (category_id, amount_encrypted, note_encrypted)
		VALUES ($1, $2, $3)
		RETURNING id, category_id, created_at
	`

	t := budget.Transaction{Amount: params.Amount, Note: params.Note}
	if err := r.db.QueryRowContext(ctx, query, params.CategoryID, encAmount, nullString(encNote)).Scan(
		&t.ID, &t.CategoryID, &t.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &t, nil
}

// ListTransactions retrieves all transactions of a category, newest first.
func (r *BudgetRepository) ListTransactions(ctx context.Context, categoryID int64) ([]*budget.Transaction, error) {
	query := `
		SELECT id, category_id, amount_encrypted, note_encrypted, created_at
		FROM transactions
		WHERE category_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*budget.Transaction
	for rows.Next() {
		var t budget.Transaction
		var encAmount string
		var encNote sql.NullString

		if err := rows.Scan(&t.ID, &t.CategoryID, &encAmount, &encNote, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amountStr, err := r.encryptor.Decrypt(encAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt transaction amount: %w", err)
		}
		if t.Amount, err = strconv.ParseFloat(amountStr, 64); err != nil {
			return nil, fmt.Errorf("failed to parse transaction amount: %w", err)
		}

		if encNote.Valid {
			note, err := r.encryptor.Decrypt(encNote.String)
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt transaction note: %w", err)
			}
			if note != "" {
				t.Note = &note
			}
		}

		transactions = append(transactions, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
