package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"centavo/internal/domain/access"
	"centavo/internal/domain/account"
)

// AccountRepository implements the account.Repository interface for PostgreSQL.
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account row and its owner membership in one
// transaction. There is no window where the account exists without an
// owner membership.
func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams, ownerID int64) (*account.Account, error) {
	var acc account.Account
	var description sql.NullString

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO accounts (name, currency_code, description)
			VALUES ($1, $2, $3)
			RETURNING id, name, currency_code, description, created_at, updated_at
		`, params.Name, params.CurrencyCode, nullString(params.Description)).Scan(
			&acc.ID, &acc.Name, &acc.CurrencyCode, &description, &acc.CreatedAt, &acc.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO account_memberships (account_id, user_id, role, is_owner)
			VALUES ($1, $2, 'owner', TRUE)
		`, acc.ID, ownerID); err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if description.Valid {
		acc.Description = description.String
	}

	return &acc, nil
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `
		SELECT id, name, currency_code, description, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&acc.ID, &acc.Name, &acc.CurrencyCode, &description, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if description.Valid {
		acc.Description = description.String
	}

	return &acc, nil
}

// ListByUserID retrieves all accounts the user is a member of.
func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	query := `
		SELECT a.id, a.name, a.currency_code, a.description, a.created_at, a.updated_at
		FROM accounts a
		JOIN account_memberships m ON m.account_id = a.id
		WHERE m.user_id = $1
		ORDER BY a.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		var description sql.NullString

		if err := rows.Scan(&acc.ID, &acc.Name, &acc.CurrencyCode, &description, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if description.Valid {
			acc.Description = description.String
		}
		accounts = append(accounts, &acc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// NameTakenByUser reports whether the user already has an account with
// this name.
func (r *AccountRepository) NameTakenByUser(ctx context.Context, userID int64, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM accounts a
			JOIN account_memberships m ON m.account_id = a.id
			WHERE m.user_id = $1 AND a.name = $2
		)
	`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, userID, name).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check account name: %w", err)
	}
	return taken, nil
}

// Update updates account fields.
func (r *AccountRepository) Update(ctx context.Context, id int64, params account.UpdateParams) (*account.Account, error) {
	query := `
		UPDATE accounts
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, currency_code, description, created_at, updated_at
	`

	var acc account.Account
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, query, id, params.Name, params.Description).Scan(
		&acc.ID, &acc.Name, &acc.CurrencyCode, &description, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if description.Valid {
		acc.Description = description.String
	}

	return &acc, nil
}

// Delete removes the account's memberships and entries, then the account
// itself, as one transaction.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE account_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete account entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM account_memberships WHERE account_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete account memberships: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read delete result: %w", err)
		}
		if affected == 0 {
			return account.ErrAccountNotFound
		}

		return nil
	})
}

// AddMember inserts a non-owner membership. ON CONFLICT DO NOTHING plus
// the follow-up select makes the operation idempotent: an existing
// membership is returned unchanged.
func (r *AccountRepository) AddMember(ctx context.Context, accountID, userID int64, role string) (*account.Membership, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO account_memberships (account_id, user_id, role, is_owner)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (account_id, user_id) DO NOTHING
	`, accountID, userID, role); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	var m account.Membership
	err := r.db.QueryRowContext(ctx, `
		SELECT account_id, user_id, role, is_owner, joined_at
		FROM account_memberships
		WHERE account_id = $1 AND user_id = $2
	`, accountID, userID).Scan(&m.AccountID, &m.UserID, &m.Role, &m.IsOwner, &m.JoinedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read membership: %w", err)
	}

	return &m, nil
}

// RemoveMember deletes a non-owner membership. The is_owner guard in the
// WHERE clause makes removing the owner a zero-row no-op.
func (r *AccountRepository) RemoveMember(ctx context.Context, accountID, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM account_memberships
		WHERE account_id = $1 AND user_id = $2 AND NOT is_owner
	`, accountID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read remove result: %w", err)
	}
	return affected > 0, nil
}

// ListMembers retrieves all members of an account with user details,
// owner first.
func (r *AccountRepository) ListMembers(ctx context.Context, accountID int64) ([]*account.Member, error) {
	query := `
		SELECT u.id, u.email, u.name, m.role, m.is_owner, m.joined_at
		FROM account_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.account_id = $1
		ORDER BY m.is_owner DESC, m.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*account.Member
	for rows.Next() {
		var m account.Member
		var name sql.NullString

		if err := rows.Scan(&m.UserID, &m.Email, &name, &m.Role, &m.IsOwner, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if name.Valid {
			m.Name = name.String
		}
		members = append(members, &m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// Level resolves a user's permission level on an account. Accounts have
// no write-sharing: member -> read, owner -> owner.
func (r *AccountRepository) Level(ctx context.Context, userID, accountID int64) (access.Level, error) {
	query := `
		SELECT is_owner
		FROM account_memberships
		WHERE account_id = $1 AND user_id = $2
	`

	var isOwner bool
	err := r.db.QueryRowContext(ctx, query, accountID, userID).Scan(&isOwner)
	if err == sql.ErrNoRows {
		return access.LevelNone, nil
	}
	if err != nil {
		return access.LevelNone, fmt.Errorf("failed to resolve account level: %w", err)
	}

	if isOwner {
		return access.LevelOwner, nil
	}
	return access.LevelRead, nil
}
