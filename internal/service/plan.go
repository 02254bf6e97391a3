package service

import (
	"context"

	"github.com/tubachi/tokenledger/internal/api/dto"
)

// PlanService exposes catalog reads and the seeding surface.
type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	ListActivePlans(ctx context.Context) (*dto.ListPlansResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{
		ServiceParams: params,
	}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("plan created", "plan_id", p.ID, "external_plan_id", p.ExternalPlanID)
	return dto.NewPlanResponse(p), nil
}

func (s *planService) ListActivePlans(ctx context.Context) (*dto.ListPlansResponse, error) {
	plans, err := s.PlanRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListPlansResponse{
		Items: make([]*dto.PlanResponse, 0, len(plans)),
	}
	for _, p := range plans {
		resp.Items = append(resp.Items, dto.NewPlanResponse(p))
	}
	return resp, nil
}
