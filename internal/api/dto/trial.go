package dto

import (
	"context"

	"github.com/kivee/kivee/internal/domain/trial"
	"github.com/kivee/kivee/internal/types"
	"github.com/kivee/kivee/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateTrialRequest struct {
	Name             string                     `json:"name" validate:"required"`
	DurationInDays   int                        `json:"duration_in_days" validate:"required,gt=0"`
	ClassLimit       int                        `json:"class_limit" validate:"gte=0"`
	PricesByLocation map[string]decimal.Decimal `json:"prices_by_location,omitempty"`
	ConvertsToTierID string                     `json:"converts_to_tier_id,omitempty"`
}

func (r *CreateTrialRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateTrialRequest) ToTrial(ctx context.Context) *trial.Trial {
	return &trial.Trial{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRIAL),
		Name:             r.Name,
		DurationInDays:   r.DurationInDays,
		ClassLimit:       r.ClassLimit,
		PricesByLocation: r.PricesByLocation,
		ConvertsToTierID: r.ConvertsToTierID,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
}

type UpdateTrialRequest struct {
	Name             *string                    `json:"name,omitempty"`
	DurationInDays   *int                       `json:"duration_in_days,omitempty"`
	ClassLimit       *int                       `json:"class_limit,omitempty"`
	PricesByLocation map[string]decimal.Decimal `json:"prices_by_location,omitempty"`
	ConvertsToTierID *string                    `json:"converts_to_tier_id,omitempty"`
	Status           *types.Status              `json:"status,omitempty"`
}

func (r *UpdateTrialRequest) Apply(t *trial.Trial) {
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.DurationInDays != nil {
		t.DurationInDays = *r.DurationInDays
	}
	if r.ClassLimit != nil {
		t.ClassLimit = *r.ClassLimit
	}
	if r.PricesByLocation != nil {
		t.PricesByLocation = r.PricesByLocation
	}
	if r.ConvertsToTierID != nil {
		t.ConvertsToTierID = *r.ConvertsToTierID
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
}

type TrialResponse struct {
	*trial.Trial
}

type ListTrialsResponse struct {
	Items []*TrialResponse `json:"items"`
	Total int              `json:"total"`
}
