package postgres

import (
	"context"

	"github.com/tubachi/tokenledger/internal/domain/ledger"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/postgres"
	"github.com/tubachi/tokenledger/internal/types"
)

type ledgerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewLedgerRepository creates a new instance of the token ledger repository
func NewLedgerRepository(db *postgres.DB, logger *logger.Logger) ledger.Repository {
	return &ledgerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ledgerRepository) Create(ctx context.Context, txn *ledger.TokenTransaction) error {
	query := `
		INSERT INTO token_transactions (
			id, user_id, amount, kind, description,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :user_id, :amount, :kind, :description,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("appending ledger entry",
		"transaction_id", txn.ID,
		"user_id", txn.UserID,
		"amount", txn.Amount,
		"kind", txn.Kind,
	)

	_, err := r.db.NamedExecContext(ctx, query, txn)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to append ledger entry").
			WithReportableDetails(map[string]any{
				"user_id": txn.UserID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *ledgerRepository) BalanceForUser(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM token_transactions
		WHERE user_id = :user_id
		AND status = :status`

	params := map[string]interface{}{
		"user_id": userID,
		"status":  types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to aggregate ledger balance").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var balance int64
	if rows.Next() {
		if err := rows.Scan(&balance); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan ledger balance").
				Mark(ierr.ErrDatabase)
		}
	}

	return balance, nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID string, filter *types.Filter) ([]*ledger.TokenTransaction, error) {
	query := `
		SELECT * FROM token_transactions
		WHERE user_id = :user_id
		AND status = :status
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset`

	params := map[string]interface{}{
		"user_id": userID,
		"status":  types.StatusPublished,
		"limit":   filter.GetLimit(),
		"offset":  filter.GetOffset(),
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query ledger entries").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var txns []*ledger.TokenTransaction
	for rows.Next() {
		var txn ledger.TokenTransaction
		if err := rows.StructScan(&txn); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan ledger entry").
				Mark(ierr.ErrDatabase)
		}
		txns = append(txns, &txn)
	}

	if err = rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate ledger entries").
			Mark(ierr.ErrDatabase)
	}

	return txns, nil
}
