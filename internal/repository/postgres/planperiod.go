package postgres

import (
	"context"
	"time"

	"github.com/tubachi/tokenledger/internal/domain/planperiod"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/postgres"
	"github.com/tubachi/tokenledger/internal/types"
)

type planPeriodRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewPlanPeriodRepository creates a new instance of the plan history repository
func NewPlanPeriodRepository(db *postgres.DB, logger *logger.Logger) planperiod.Repository {
	return &planPeriodRepository{
		db:     db,
		logger: logger,
	}
}

func (r *planPeriodRepository) Create(ctx context.Context, period *planperiod.PlanPeriod) error {
	query := `
		INSERT INTO plan_periods (
			id, user_id, plan_id, start_date, end_date, change_reason, external_txn_ref,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :user_id, :plan_id, :start_date, :end_date, :change_reason, :external_txn_ref,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating plan period",
		"period_id", period.ID,
		"user_id", period.UserID,
		"plan_id", period.PlanID,
		"change_reason", period.ChangeReason,
	)

	_, err := r.db.NamedExecContext(ctx, query, period)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create plan period").
			WithReportableDetails(map[string]any{
				"user_id": period.UserID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *planPeriodRepository) Update(ctx context.Context, period *planperiod.PlanPeriod) error {
	query := `
		UPDATE plan_periods
		SET
			end_date = :end_date,
			change_reason = :change_reason,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
		AND status = :status`

	period.UpdatedAt = time.Now().UTC()
	period.UpdatedBy = types.GetUserID(ctx)
	period.Status = types.StatusPublished

	result, err := r.db.NamedExecContext(ctx, query, period)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update plan period").
			Mark(ierr.ErrDatabase)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to get rows affected").
			Mark(ierr.ErrDatabase)
	}

	if rows == 0 {
		return ierr.NewError("plan period not found").
			WithHint("Plan period not found").
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *planPeriodRepository) CloseOpen(ctx context.Context, userID string, at time.Time) error {
	// Closes every open row, not just one; tolerates prior inconsistency
	// and is a no-op when none is open.
	query := `
		UPDATE plan_periods
		SET
			end_date = :end_date,
			updated_at = NOW(),
			updated_by = :updated_by
		WHERE user_id = :user_id
		AND end_date IS NULL
		AND status = :status`

	params := map[string]interface{}{
		"user_id":    userID,
		"end_date":   at,
		"updated_by": types.GetUserID(ctx),
		"status":     types.StatusPublished,
	}

	r.logger.Debugw("closing open plan periods",
		"user_id", userID,
		"end_date", at,
	)

	_, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to close open plan period").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *planPeriodRepository) GetOpen(ctx context.Context, userID string) (*planperiod.PlanPeriod, error) {
	query := `
		SELECT * FROM plan_periods
		WHERE user_id = :user_id
		AND end_date IS NULL
		AND status = :status
		ORDER BY start_date DESC
		LIMIT 1`

	return r.getOne(ctx, query, map[string]interface{}{
		"user_id": userID,
		"status":  types.StatusPublished,
	})
}

func (r *planPeriodRepository) GetLast(ctx context.Context, userID string) (*planperiod.PlanPeriod, error) {
	query := `
		SELECT * FROM plan_periods
		WHERE user_id = :user_id
		AND status = :status
		ORDER BY start_date DESC
		LIMIT 1`

	return r.getOne(ctx, query, map[string]interface{}{
		"user_id": userID,
		"status":  types.StatusPublished,
	})
}

func (r *planPeriodRepository) getOne(ctx context.Context, query string, params map[string]interface{}) (*planperiod.PlanPeriod, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query plan period").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("plan period not found").
			WithHint("No plan period found for user").
			Mark(ierr.ErrNotFound)
	}

	var period planperiod.PlanPeriod
	if err := rows.StructScan(&period); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan plan period").
			Mark(ierr.ErrDatabase)
	}
	return &period, nil
}

func (r *planPeriodRepository) ListByUser(ctx context.Context, userID string) ([]*planperiod.PlanPeriod, error) {
	query := `
		SELECT * FROM plan_periods
		WHERE user_id = :user_id
		AND status = :status
		ORDER BY start_date DESC`

	params := map[string]interface{}{
		"user_id": userID,
		"status":  types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query plan periods").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var periods []*planperiod.PlanPeriod
	for rows.Next() {
		var period planperiod.PlanPeriod
		if err := rows.StructScan(&period); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan plan period").
				Mark(ierr.ErrDatabase)
		}
		periods = append(periods, &period)
	}

	if err = rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate plan periods").
			Mark(ierr.ErrDatabase)
	}

	return periods, nil
}
