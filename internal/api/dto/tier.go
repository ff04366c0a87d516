package dto

import (
	"context"
	"time"

	"github.com/kivee/kivee/internal/domain/tier"
	"github.com/kivee/kivee/internal/types"
	"github.com/kivee/kivee/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type PriceVariantRequest struct {
	BillingPeriod  types.BillingPeriod `json:"billing_period" validate:"required"`
	Price          *decimal.Decimal    `json:"price" validate:"required"`
	CustomTermName string              `json:"custom_term_name,omitempty"`
	TermStartDate  *time.Time          `json:"term_start_date,omitempty"`
	TermEndDate    *time.Time          `json:"term_end_date,omitempty"`
	DurationUnit   types.DurationUnit  `json:"duration_unit,omitempty"`
	DurationAmount int                 `json:"duration_amount,omitempty"`
}

func (r PriceVariantRequest) toVariant() tier.PriceVariant {
	return tier.PriceVariant{
		BillingPeriod:  r.BillingPeriod,
		Price:          r.Price,
		CustomTermName: r.CustomTermName,
		TermStartDate:  r.TermStartDate,
		TermEndDate:    r.TermEndDate,
		DurationUnit:   r.DurationUnit,
		DurationAmount: r.DurationAmount,
	}
}

type CreateTierRequest struct {
	Name                      string                           `json:"name" validate:"required"`
	ClassesPerWeek            int                              `json:"classes_per_week" validate:"gte=0"`
	ClassDurationMinutes      int                              `json:"class_duration_minutes" validate:"gte=0"`
	RequiresEnrollmentFee     bool                             `json:"requires_enrollment_fee"`
	DifferentPricesByLocation bool                             `json:"different_prices_by_location"`
	DefaultPriceVariants      []PriceVariantRequest            `json:"default_price_variants,omitempty"`
	PriceVariantsByLocation   map[string][]PriceVariantRequest `json:"price_variants_by_location,omitempty"`
}

func (r *CreateTierRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	// Variant-level rules, including the one-variant-per-standard-period
	// invariant, are enforced by the domain model
	return nil
}

func (r *CreateTierRequest) ToTier(ctx context.Context) *tier.Tier {
	t := &tier.Tier{
		ID:                        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TIER),
		Name:                      r.Name,
		ClassesPerWeek:            r.ClassesPerWeek,
		ClassDurationMinutes:      r.ClassDurationMinutes,
		RequiresEnrollmentFee:     r.RequiresEnrollmentFee,
		DifferentPricesByLocation: r.DifferentPricesByLocation,
		BaseModel:                 types.GetDefaultBaseModel(ctx),
	}
	t.DefaultPriceVariants = lo.Map(r.DefaultPriceVariants, func(v PriceVariantRequest, _ int) tier.PriceVariant {
		return v.toVariant()
	})
	if len(r.PriceVariantsByLocation) > 0 {
		t.PriceVariantsByLocation = make(map[string][]tier.PriceVariant, len(r.PriceVariantsByLocation))
		for locationID, variants := range r.PriceVariantsByLocation {
			t.PriceVariantsByLocation[locationID] = lo.Map(variants, func(v PriceVariantRequest, _ int) tier.PriceVariant {
				return v.toVariant()
			})
		}
	}
	return t
}

type UpdateTierRequest struct {
	Name                      *string                          `json:"name,omitempty"`
	ClassesPerWeek            *int                             `json:"classes_per_week,omitempty"`
	ClassDurationMinutes      *int                             `json:"class_duration_minutes,omitempty"`
	RequiresEnrollmentFee     *bool                            `json:"requires_enrollment_fee,omitempty"`
	DifferentPricesByLocation *bool                            `json:"different_prices_by_location,omitempty"`
	DefaultPriceVariants      []PriceVariantRequest            `json:"default_price_variants,omitempty"`
	PriceVariantsByLocation   map[string][]PriceVariantRequest `json:"price_variants_by_location,omitempty"`
	Status                    *types.Status                    `json:"status,omitempty"`
}

func (r *UpdateTierRequest) Apply(t *tier.Tier) {
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.ClassesPerWeek != nil {
		t.ClassesPerWeek = *r.ClassesPerWeek
	}
	if r.ClassDurationMinutes != nil {
		t.ClassDurationMinutes = *r.ClassDurationMinutes
	}
	if r.RequiresEnrollmentFee != nil {
		t.RequiresEnrollmentFee = *r.RequiresEnrollmentFee
	}
	if r.DifferentPricesByLocation != nil {
		t.DifferentPricesByLocation = *r.DifferentPricesByLocation
	}
	if r.DefaultPriceVariants != nil {
		t.DefaultPriceVariants = lo.Map(r.DefaultPriceVariants, func(v PriceVariantRequest, _ int) tier.PriceVariant {
			return v.toVariant()
		})
	}
	if r.PriceVariantsByLocation != nil {
		t.PriceVariantsByLocation = make(map[string][]tier.PriceVariant, len(r.PriceVariantsByLocation))
		for locationID, variants := range r.PriceVariantsByLocation {
			t.PriceVariantsByLocation[locationID] = lo.Map(variants, func(v PriceVariantRequest, _ int) tier.PriceVariant {
				return v.toVariant()
			})
		}
	}
	if r.Status != nil {
		t.Status = *r.Status
	}
}

type TierResponse struct {
	*tier.Tier
}

type ListTiersResponse struct {
	Items []*TierResponse `json:"items"`
	Total int             `json:"total"`
}
