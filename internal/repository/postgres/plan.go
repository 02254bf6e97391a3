package postgres

import (
	"context"
	"time"

	"github.com/tubachi/tokenledger/internal/cache"
	"github.com/tubachi/tokenledger/internal/domain/plan"
	ierr "github.com/tubachi/tokenledger/internal/errors"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/postgres"
	"github.com/tubachi/tokenledger/internal/types"
)

// planCacheExpiration bounds staleness of the read-mostly catalog.
const planCacheExpiration = 5 * time.Minute

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
	cache  cache.Cache
}

// NewPlanRepository creates a new instance of the plan catalog repository
func NewPlanRepository(db *postgres.DB, logger *logger.Logger, c cache.Cache) plan.Repository {
	return &planRepository{
		db:     db,
		logger: logger,
		cache:  c,
	}
}

func (r *planRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO plans (
			id, external_plan_id, name, tokens_per_month, price_usd, features, is_active,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :external_plan_id, :name, :tokens_per_month, :price_usd, :features, :is_active,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating plan",
		"plan_id", p.ID,
		"external_plan_id", p.ExternalPlanID,
	)

	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create plan").
			Mark(ierr.ErrDatabase)
	}

	r.cache.DeleteByPrefix(ctx, cache.PrefixPlan)
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.Plan, error) {
	key := cache.GenerateKey(cache.PrefixPlan, "id", id)
	if cached, found := r.cache.Get(ctx, key); found {
		if p, ok := cached.(*plan.Plan); ok {
			return p, nil
		}
	}

	query := `
		SELECT * FROM plans
		WHERE id = :id
		AND status = :status`

	p, err := r.getOne(ctx, query, map[string]interface{}{
		"id":     id,
		"status": types.StatusPublished,
	})
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, p, planCacheExpiration)
	return p, nil
}

func (r *planRepository) GetByExternalID(ctx context.Context, externalID int) (*plan.Plan, error) {
	key := cache.GenerateKey(cache.PrefixPlan, "external", externalID)
	if cached, found := r.cache.Get(ctx, key); found {
		if p, ok := cached.(*plan.Plan); ok {
			return p, nil
		}
	}

	query := `
		SELECT * FROM plans
		WHERE external_plan_id = :external_plan_id
		AND status = :status`

	p, err := r.getOne(ctx, query, map[string]interface{}{
		"external_plan_id": externalID,
		"status":           types.StatusPublished,
	})
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, p, planCacheExpiration)
	return p, nil
}

func (r *planRepository) getOne(ctx context.Context, query string, params map[string]interface{}) (*plan.Plan, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query plan").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("plan not found").
			WithHint("Plan not found").
			Mark(ierr.ErrNotFound)
	}

	var p plan.Plan
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan plan").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *planRepository) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	query := `
		SELECT * FROM plans
		WHERE is_active = TRUE
		AND status = :status
		ORDER BY price_usd ASC`

	params := map[string]interface{}{
		"status": types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plans").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		var p plan.Plan
		if err := rows.StructScan(&p); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan plan").
				Mark(ierr.ErrDatabase)
		}
		plans = append(plans, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to iterate plans").
			Mark(ierr.ErrDatabase)
	}

	return plans, nil
}
