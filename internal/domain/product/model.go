package product

import (
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
	"github.com/shopspring/decimal"
)

// Product is a one-time purchasable item in the academy catalog
// (uniforms, equipment, enrollment fees and the like)
type Product struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	// BasePrice applies wherever no location-specific price is set
	BasePrice decimal.Decimal `db:"base_price" json:"base_price"`

	// PricesByLocation maps location id to a location-specific price
	PricesByLocation map[string]decimal.Decimal `db:"prices_by_location,jsonb" json:"prices_by_location,omitempty"`

	types.BaseModel
}

// PriceForLocation returns the location price when one is set, falling
// back to the base price
func (p *Product) PriceForLocation(locationID string) decimal.Decimal {
	if price, ok := p.PricesByLocation[locationID]; ok {
		return price
	}
	return p.BasePrice
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return ierr.NewError("product name is required").
			WithHint("Product name is required").
			Mark(ierr.ErrValidation)
	}
	if p.BasePrice.IsNegative() {
		return ierr.NewError("product price cannot be negative").
			WithHint("Product price must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	for locationID, price := range p.PricesByLocation {
		if price.IsNegative() {
			return ierr.NewError("product price cannot be negative").
				WithHint("Product price must be zero or greater").
				WithReportableDetails(map[string]any{
					"location_id":    locationID,
					"provided_value": price.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
