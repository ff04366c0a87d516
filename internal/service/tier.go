package service

import (
	"context"

	"github.com/kivee/kivee/internal/api/dto"
	"github.com/kivee/kivee/internal/domain/tier"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/samber/lo"
)

type TierService interface {
	CreateTier(ctx context.Context, req dto.CreateTierRequest) (*dto.TierResponse, error)
	GetTier(ctx context.Context, id string) (*dto.TierResponse, error)
	ListTiers(ctx context.Context) (*dto.ListTiersResponse, error)
	UpdateTier(ctx context.Context, id string, req dto.UpdateTierRequest) (*dto.TierResponse, error)
	DeleteTier(ctx context.Context, id string) error
}

type tierService struct {
	tierRepo tier.Repository
	logger   *logger.Logger
}

func NewTierService(tierRepo tier.Repository, logger *logger.Logger) TierService {
	return &tierService{
		tierRepo: tierRepo,
		logger:   logger,
	}
}

func (s *tierService) CreateTier(ctx context.Context, req dto.CreateTierRequest) (*dto.TierResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := req.ToTier(ctx)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.tierRepo.Create(ctx, t); err != nil {
		s.logger.Errorw("failed to create tier",
			"error", err,
			"tier_id", t.ID,
			"name", t.Name,
		)
		return nil, err
	}

	return &dto.TierResponse{Tier: t}, nil
}

func (s *tierService) GetTier(ctx context.Context, id string) (*dto.TierResponse, error) {
	if id == "" {
		return nil, ierr.NewError("tier_id is required").
			WithHint("Tier ID is required").
			Mark(ierr.ErrValidation)
	}

	t, err := s.tierRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.TierResponse{Tier: t}, nil
}

func (s *tierService) ListTiers(ctx context.Context) (*dto.ListTiersResponse, error) {
	tiers, err := s.tierRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListTiersResponse{
		Items: lo.Map(tiers, func(t *tier.Tier, _ int) *dto.TierResponse {
			return &dto.TierResponse{Tier: t}
		}),
		Total: len(tiers),
	}, nil
}

func (s *tierService) UpdateTier(ctx context.Context, id string, req dto.UpdateTierRequest) (*dto.TierResponse, error) {
	if id == "" {
		return nil, ierr.NewError("tier_id is required").
			WithHint("Tier ID is required").
			Mark(ierr.ErrValidation)
	}

	t, err := s.tierRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(t)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.tierRepo.Update(ctx, t); err != nil {
		s.logger.Errorw("failed to update tier",
			"error", err,
			"tier_id", t.ID,
		)
		return nil, err
	}

	return &dto.TierResponse{Tier: t}, nil
}

// DeleteTier soft deletes a tier. Ledger groups referencing the tier
// simply stop advancing; existing charges are untouched.
func (s *tierService) DeleteTier(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("tier_id is required").
			WithHint("Tier ID is required").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.tierRepo.Get(ctx, id); err != nil {
		return err
	}

	return s.tierRepo.Delete(ctx, id)
}
