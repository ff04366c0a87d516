package service

import (
	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/product"
	"github.com/kivee/kivee/internal/domain/tier"
	"github.com/kivee/kivee/internal/logger"
	"github.com/shopspring/decimal"
)

// ProductNotFoundName is the display name used when a product charge
// references a catalog entry that no longer exists
const ProductNotFoundName = "Product not found"

// PriceResolution is the outcome of resolving a tier's pricing at a
// location. Zero valid variants means no price is set there; more than
// one means staff must choose a cadence at enrollment time — the
// resolver never collapses the choice silently.
type PriceResolution struct {
	Variants []tier.PriceVariant
}

// None reports that no valid price exists for the location
func (r *PriceResolution) None() bool {
	return len(r.Variants) == 0
}

// Single returns the variant when exactly one is valid
func (r *PriceResolution) Single() (tier.PriceVariant, bool) {
	if len(r.Variants) == 1 {
		return r.Variants[0], true
	}
	return tier.PriceVariant{}, false
}

// Ambiguous reports that more than one valid variant exists and the
// caller must pick one explicitly
func (r *PriceResolution) Ambiguous() bool {
	return len(r.Variants) > 1
}

type PricingService interface {
	// ResolvePrice returns the valid price variants a tier offers at a
	// location
	ResolvePrice(t *tier.Tier, locationID string) *PriceResolution

	// ResolveProductCharge resolves the display name and amount of a
	// product charge against the catalog. It never fails: a deleted
	// product falls back to the stored name or a placeholder, and a
	// zero amount.
	ResolveProductCharge(c *ledger.ProductCharge, catalog map[string]*product.Product, locationID string) (string, decimal.Decimal)
}

type pricingService struct {
	logger *logger.Logger
}

func NewPricingService(logger *logger.Logger) PricingService {
	return &pricingService{logger: logger}
}

func (s *pricingService) ResolvePrice(t *tier.Tier, locationID string) *PriceResolution {
	if t == nil {
		return &PriceResolution{}
	}
	return &PriceResolution{Variants: t.ValidVariantsForLocation(locationID)}
}

func (s *pricingService) ResolveProductCharge(
	c *ledger.ProductCharge,
	catalog map[string]*product.Product,
	locationID string,
) (string, decimal.Decimal) {
	name := c.ProductName
	prod := catalog[c.ProductID]

	if name == "" {
		if prod != nil {
			name = prod.Name
		} else {
			name = ProductNotFoundName
		}
	}

	// Stored amount wins, then location pricing, then base price
	if c.Amount != nil {
		return name, *c.Amount
	}
	if prod != nil {
		return name, prod.PriceForLocation(locationID)
	}

	s.logger.Debugw("product charge references missing product",
		"charge_id", c.ID,
		"product_id", c.ProductID,
	)
	return name, decimal.Zero
}
