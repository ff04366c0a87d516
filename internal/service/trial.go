package service

import (
	"context"

	"github.com/kivee/kivee/internal/api/dto"
	"github.com/kivee/kivee/internal/domain/trial"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/samber/lo"
)

type TrialService interface {
	CreateTrial(ctx context.Context, req dto.CreateTrialRequest) (*dto.TrialResponse, error)
	GetTrial(ctx context.Context, id string) (*dto.TrialResponse, error)
	ListTrials(ctx context.Context) (*dto.ListTrialsResponse, error)
	UpdateTrial(ctx context.Context, id string, req dto.UpdateTrialRequest) (*dto.TrialResponse, error)
	DeleteTrial(ctx context.Context, id string) error
}

type trialService struct {
	trialRepo trial.Repository
	logger    *logger.Logger
}

func NewTrialService(trialRepo trial.Repository, logger *logger.Logger) TrialService {
	return &trialService{
		trialRepo: trialRepo,
		logger:    logger,
	}
}

func (s *trialService) CreateTrial(ctx context.Context, req dto.CreateTrialRequest) (*dto.TrialResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := req.ToTrial(ctx)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.trialRepo.Create(ctx, t); err != nil {
		s.logger.Errorw("failed to create trial",
			"error", err,
			"trial_id", t.ID,
			"name", t.Name,
		)
		return nil, err
	}

	return &dto.TrialResponse{Trial: t}, nil
}

func (s *trialService) GetTrial(ctx context.Context, id string) (*dto.TrialResponse, error) {
	if id == "" {
		return nil, ierr.NewError("trial_id is required").
			WithHint("Trial ID is required").
			Mark(ierr.ErrValidation)
	}

	t, err := s.trialRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.TrialResponse{Trial: t}, nil
}

func (s *trialService) ListTrials(ctx context.Context) (*dto.ListTrialsResponse, error) {
	trials, err := s.trialRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListTrialsResponse{
		Items: lo.Map(trials, func(t *trial.Trial, _ int) *dto.TrialResponse {
			return &dto.TrialResponse{Trial: t}
		}),
		Total: len(trials),
	}, nil
}

func (s *trialService) UpdateTrial(ctx context.Context, id string, req dto.UpdateTrialRequest) (*dto.TrialResponse, error) {
	if id == "" {
		return nil, ierr.NewError("trial_id is required").
			WithHint("Trial ID is required").
			Mark(ierr.ErrValidation)
	}

	t, err := s.trialRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(t)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.trialRepo.Update(ctx, t); err != nil {
		s.logger.Errorw("failed to update trial",
			"error", err,
			"trial_id", t.ID,
		)
		return nil, err
	}

	return &dto.TrialResponse{Trial: t}, nil
}

func (s *trialService) DeleteTrial(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("trial_id is required").
			WithHint("Trial ID is required").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.trialRepo.Get(ctx, id); err != nil {
		return err
	}

	return s.trialRepo.Delete(ctx, id)
}
