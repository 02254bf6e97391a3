package postgres

import (
	"context"
	"time"

	"github.com/tubachi/tokenledger/internal/domain/account"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/postgres"
	"github.com/tubachi/tokenledger/internal/types"
)

type accountRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewAccountRepository creates a new instance of the account repository
func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, name, surname, plan_id, token_balance, last_token_reset, device_id,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :email, :name, :surname, :plan_id, :token_balance, :last_token_reset, :device_id,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating account", "account_id", acc.ID, "email", acc.Email)

	_, err := r.db.NamedExecContext(ctx, query, acc)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("An account with this email already exists").
				WithReportableDetails(map[string]any{
					"email": acc.Email,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create account").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT * FROM accounts
		WHERE id = :id
		AND status = :status`

	return r.getOne(ctx, query, map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	})
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `
		SELECT * FROM accounts
		WHERE email = :email
		AND status = :status`

	return r.getOne(ctx, query, map[string]interface{}{
		"email":  email,
		"status": types.StatusPublished,
	})
}

// GetForUpdate locks the account row for the duration of the surrounding
// transaction. Must only be called inside WithTx.
func (r *accountRepository) GetForUpdate(ctx context.Context, id string) (*account.Account, error) {
	if _, ok := postgres.GetTx(ctx); !ok {
		return nil, ierr.NewError("row lock requested outside a transaction").
			WithHint("Account locking requires an active transaction").
			Mark(ierr.ErrSystem)
	}

	query := `
		SELECT * FROM accounts
		WHERE id = :id
		AND status = :status
		FOR UPDATE`

	return r.getOne(ctx, query, map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	})
}

func (r *accountRepository) getOne(ctx context.Context, query string, params map[string]interface{}) (*account.Account, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query account").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("account not found").
			WithHint("Account not found").
			Mark(ierr.ErrNotFound)
	}

	var acc account.Account
	if err := rows.StructScan(&acc); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan account").
			Mark(ierr.ErrDatabase)
	}
	return &acc, nil
}

func (r *accountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET
			name = :name,
			surname = :surname,
			plan_id = :plan_id,
			token_balance = :token_balance,
			last_token_reset = :last_token_reset,
			device_id = :device_id,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
		AND status = :status`

	acc.UpdatedAt = time.Now().UTC()
	acc.UpdatedBy = types.GetUserID(ctx)
	acc.Status = types.StatusPublished

	result, err := r.db.NamedExecContext(ctx, query, acc)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update account").
			Mark(ierr.ErrDatabase)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to get rows affected").
			Mark(ierr.ErrDatabase)
	}

	if rows == 0 {
		return ierr.NewError("account not found").
			WithHint("Account not found").
			Mark(ierr.ErrNotFound)
	}

	return nil
}

// ListDueForReset returns published accounts whose last token reset is at or
// before the cutoff, oldest first.
func (r *accountRepository) ListDueForReset(ctx context.Context, cutoff time.Time) ([]*account.Account, error) {
	query := `
		SELECT * FROM accounts
		WHERE last_token_reset <= :cutoff
		AND status = :status
		ORDER BY last_token_reset ASC`

	params := map[string]interface{}{
		"cutoff": cutoff,
		"status": types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query accounts due for reset").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		if err := rows.StructScan(&acc); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan account").
				Mark(ierr.ErrDatabase)
		}
		accounts = append(accounts, &acc)
	}

	if err = rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate accounts").
			Mark(ierr.ErrDatabase)
	}

	return accounts, nil
}
