package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"centavo/internal/domain/entry"
)

// EntryRepository implements the entry.Repository interface for PostgreSQL.
type EntryRepository struct {
	db *DB
}

// NewEntryRepository creates a new PostgreSQL entry repository.
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create creates a new entry.
func (r *EntryRepository) Create(ctx context.Context, userID int64, params entry.CreateParams) (*entry.Entry, error) {
	query := `
		INSERT INTO entries (account_id, user_id, category_id, type, amount, description, entry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, account_id, user_id, category_id, type, amount, description, entry_date, created_at, updated_at
	`

	var e entry.Entry
	var categoryID sql.NullInt64
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, query,
		params.AccountID, userID, params.CategoryID, params.Type, params.Amount,
		nullString(params.Description), params.EntryDate,
	).Scan(
		&e.ID, &e.AccountID, &e.UserID, &categoryID, &e.Type, &e.Amount,
		&description, &e.EntryDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	if categoryID.Valid {
		e.CategoryID = &categoryID.Int64
	}
	if description.Valid {
		e.Description = description.String
	}

	return &e, nil
}

// ListByAccountID retrieves all entries for an account, newest first.
func (r *EntryRepository) ListByAccountID(ctx context.Context, accountID int64) ([]*entry.Entry, error) {
	query := `
		SELECT id, account_id, user_id, category_id, type, amount, description, entry_date, created_at, updated_at
		FROM entries
		WHERE account_id = $1
		ORDER BY entry_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*entry.Entry
	for rows.Next() {
		var e entry.Entry
		var categoryID sql.NullInt64
		var description sql.NullString

		if err := rows.Scan(
			&e.ID, &e.AccountID, &e.UserID, &categoryID, &e.Type, &e.Amount,
			&description, &e.EntryDate, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if categoryID.Valid {
			e.CategoryID = &categoryID.Int64
		}
		if description.Valid {
			e.Description = description.String
		}
		entries = append(entries, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}
