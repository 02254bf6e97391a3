package plan

import "context"

// Repository defines the interface for plan catalog persistence. The catalog
// is read-only within engine operations; Create exists for seeding and admin
// surfaces only.
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	Get(ctx context.Context, id string) (*Plan, error)
	GetByExternalID(ctx context.Context, externalID int) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
}
