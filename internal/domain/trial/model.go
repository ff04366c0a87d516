package trial

import (
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
	"github.com/shopspring/decimal"
)

// Trial is a time-boxed introductory plan. It is not recurring; after
// expiry the advisory ConvertsToTierID names the tier staff typically
// roll the student into, but no code converts automatically.
type Trial struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	DurationInDays int    `db:"duration_in_days" json:"duration_in_days"`
	ClassLimit     int    `db:"class_limit" json:"class_limit"`

	// PricesByLocation maps location id to the trial price there
	PricesByLocation map[string]decimal.Decimal `db:"prices_by_location,jsonb" json:"prices_by_location,omitempty"`

	ConvertsToTierID string `db:"converts_to_tier_id" json:"converts_to_tier_id,omitempty"`

	types.BaseModel
}

// PriceForLocation returns the trial price at a location, if one is set
func (t *Trial) PriceForLocation(locationID string) (decimal.Decimal, bool) {
	price, ok := t.PricesByLocation[locationID]
	return price, ok
}

func (t *Trial) Validate() error {
	if t.Name == "" {
		return ierr.NewError("trial name is required").
			WithHint("Trial name is required").
			Mark(ierr.ErrValidation)
	}
	if t.DurationInDays <= 0 {
		return ierr.NewError("trial duration must be positive").
			WithHint("Trial duration must be at least one day").
			WithReportableDetails(map[string]any{
				"provided_value": t.DurationInDays,
			}).
			Mark(ierr.ErrValidation)
	}
	for locationID, price := range t.PricesByLocation {
		if price.IsNegative() {
			return ierr.NewError("trial price cannot be negative").
				WithHint("Trial price must be zero or greater").
				WithReportableDetails(map[string]any{
					"location_id":    locationID,
					"provided_value": price.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
