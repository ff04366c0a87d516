package tier

import (
	"time"

	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PriceVariant is one (billing period, price, metadata) tuple a tier may
// offer. Period-specific fields are only set for their own period.
type PriceVariant struct {
	BillingPeriod types.BillingPeriod `json:"billing_period"`

	// Price in main currency units. A nil price means the variant is not
	// fully configured yet and is skipped by resolution.
	Price *decimal.Decimal `json:"price,omitempty"`

	// CUSTOM_TERM fields
	CustomTermName string     `json:"custom_term_name,omitempty"`
	TermStartDate  *time.Time `json:"term_start_date,omitempty"`
	TermEndDate    *time.Time `json:"term_end_date,omitempty"`

	// CUSTOM_DURATION fields
	DurationUnit   types.DurationUnit `json:"duration_unit,omitempty"`
	DurationAmount int                `json:"duration_amount,omitempty"`
}

// IsValid reports whether the variant is complete enough to price a
// subscription: a non-empty billing period and a numeric price.
func (v PriceVariant) IsValid() bool {
	return v.BillingPeriod != "" && v.Price != nil && !v.Price.IsNegative()
}

// Cycle returns the resolved billing cadence of the variant
func (v PriceVariant) Cycle() types.BillingCycle {
	cycle := types.BillingCycle{Period: v.BillingPeriod}
	switch v.BillingPeriod {
	case types.BILLING_PERIOD_CUSTOM_DURATION:
		cycle.Duration = &types.CustomDuration{
			Unit:   v.DurationUnit,
			Amount: v.DurationAmount,
		}
	case types.BILLING_PERIOD_CUSTOM_TERM:
		cycle.TermEnd = v.TermEndDate
	}
	return cycle
}

func (v PriceVariant) Validate() error {
	if err := v.BillingPeriod.Validate(); err != nil {
		return err
	}
	if v.Price == nil {
		return ierr.NewError("price variant has no price").
			WithHint("Every price variant needs a price").
			Mark(ierr.ErrValidation)
	}
	if v.Price.IsNegative() {
		return ierr.NewError("price cannot be negative").
			WithHint("Price must be zero or greater").
			WithReportableDetails(map[string]any{
				"provided_value": v.Price.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	switch v.BillingPeriod {
	case types.BILLING_PERIOD_CUSTOM_TERM:
		if v.TermEndDate == nil {
			return ierr.NewError("custom term variant has no term end date").
				WithHint("Term-based pricing needs a term end date").
				Mark(ierr.ErrValidation)
		}
		if v.TermStartDate != nil && v.TermEndDate.Before(*v.TermStartDate) {
			return ierr.NewError("term end date is before term start date").
				WithHint("Term end date must be after term start date").
				Mark(ierr.ErrValidation)
		}
	case types.BILLING_PERIOD_CUSTOM_DURATION:
		if err := (types.CustomDuration{Unit: v.DurationUnit, Amount: v.DurationAmount}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Tier is a recurring membership plan definition in the academy catalog
type Tier struct {
	ID                    string `db:"id" json:"id"`
	Name                  string `db:"name" json:"name"`
	ClassesPerWeek        int    `db:"classes_per_week" json:"classes_per_week"`
	ClassDurationMinutes  int    `db:"class_duration_minutes" json:"class_duration_minutes"`
	RequiresEnrollmentFee bool   `db:"requires_enrollment_fee" json:"requires_enrollment_fee"`

	// DifferentPricesByLocation switches pricing from the default variant
	// list to the per-location map
	DifferentPricesByLocation bool `db:"different_prices_by_location" json:"different_prices_by_location"`

	// DefaultPriceVariants apply uniformly across locations
	DefaultPriceVariants []PriceVariant `db:"default_price_variants,jsonb" json:"default_price_variants,omitempty"`

	// PriceVariantsByLocation maps location id to that location's variants
	PriceVariantsByLocation map[string][]PriceVariant `db:"price_variants_by_location,jsonb" json:"price_variants_by_location,omitempty"`

	types.BaseModel
}

// VariantsForLocation returns the raw variant list in effect for a
// location. An absent location entry yields nil when per-location pricing
// is on.
func (t *Tier) VariantsForLocation(locationID string) []PriceVariant {
	if t.DifferentPricesByLocation {
		return t.PriceVariantsByLocation[locationID]
	}
	return t.DefaultPriceVariants
}

// ValidVariantsForLocation returns only the variants complete enough to
// price a subscription at the given location
func (t *Tier) ValidVariantsForLocation(locationID string) []PriceVariant {
	return lo.Filter(t.VariantsForLocation(locationID), func(v PriceVariant, _ int) bool {
		return v.IsValid()
	})
}

// Validate checks the variant lists, including the invariant that a
// location offers at most one variant per standard billing period.
func (t *Tier) Validate() error {
	if t.Name == "" {
		return ierr.NewError("tier name is required").
			WithHint("Tier name is required").
			Mark(ierr.ErrValidation)
	}
	if t.DifferentPricesByLocation {
		for locationID, variants := range t.PriceVariantsByLocation {
			if err := validateVariantList(variants, locationID); err != nil {
				return err
			}
		}
		return nil
	}
	return validateVariantList(t.DefaultPriceVariants, "")
}

func validateVariantList(variants []PriceVariant, locationID string) error {
	seen := map[types.BillingPeriod]bool{}
	for _, v := range variants {
		if err := v.Validate(); err != nil {
			return err
		}
		if !v.BillingPeriod.IsStandard() {
			continue
		}
		if seen[v.BillingPeriod] {
			return ierr.NewError("duplicate price variant for billing period").
				WithHintf("Only one %s price is allowed per location", v.BillingPeriod).
				WithReportableDetails(map[string]any{
					"billing_period": v.BillingPeriod,
					"location_id":    locationID,
				}).
				Mark(ierr.ErrValidation)
		}
		seen[v.BillingPeriod] = true
	}
	return nil
}
