package service

import (
	"testing"
	"time"

	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/product"
	"github.com/kivee/kivee/internal/domain/tier"
	"github.com/kivee/kivee/internal/testutil"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PricingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PricingService
}

func TestPricingService(t *testing.T) {
	suite.Run(t, new(PricingServiceSuite))
}

func (s *PricingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPricingService(s.GetLogger())
}

func (s *PricingServiceSuite) TestResolvePriceDefaultVariants() {
	t := &tier.Tier{
		ID:   "tier_1",
		Name: "Basic",
		DefaultPriceVariants: []tier.PriceVariant{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(90))},
		},
	}

	resolution := s.service.ResolvePrice(t, "loc_any")
	v, ok := resolution.Single()
	s.True(ok)
	s.True(v.Price.Equal(decimal.NewFromInt(90)))
}

func (s *PricingServiceSuite) TestResolvePricePerLocationOverrides() {
	t := &tier.Tier{
		ID:                        "tier_1",
		Name:                      "Basic",
		DifferentPricesByLocation: true,
		PriceVariantsByLocation: map[string][]tier.PriceVariant{
			"loc_downtown": {
				{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(110))},
			},
		},
	}

	v, ok := s.service.ResolvePrice(t, "loc_downtown").Single()
	s.True(ok)
	s.True(v.Price.Equal(decimal.NewFromInt(110)))

	// A location with no variants configured has no price at all
	s.True(s.service.ResolvePrice(t, "loc_suburb").None())
}

func (s *PricingServiceSuite) TestResolvePriceSkipsInvalidVariants() {
	t := &tier.Tier{
		ID:   "tier_1",
		Name: "Basic",
		DefaultPriceVariants: []tier.PriceVariant{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY}, // no price set
			{BillingPeriod: types.BILLING_PERIOD_ANNUAL, Price: lo.ToPtr(decimal.NewFromInt(-1))},
		},
	}

	s.True(s.service.ResolvePrice(t, "loc_any").None())
}

func (s *PricingServiceSuite) TestResolvePriceAmbiguous() {
	t := &tier.Tier{
		ID:   "tier_1",
		Name: "Pro",
		DefaultPriceVariants: []tier.PriceVariant{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(120))},
			{BillingPeriod: types.BILLING_PERIOD_SEMI_ANNUAL, Price: lo.ToPtr(decimal.NewFromInt(650))},
		},
	}

	resolution := s.service.ResolvePrice(t, "loc_any")
	s.True(resolution.Ambiguous())
	_, ok := resolution.Single()
	s.False(ok)
}

func (s *PricingServiceSuite) TestResolveProductChargeStoredAmountWins() {
	catalog := map[string]*product.Product{
		"prod_1": {
			ID:        "prod_1",
			Name:      "Gloves",
			BasePrice: decimal.NewFromInt(40),
		},
	}
	amount := decimal.NewFromInt(35)
	c := ledger.NewProductCharge("prod_1", "Gloves", &amount, time.Now().UTC())

	name, resolved := s.service.ResolveProductCharge(c, catalog, "loc_any")
	s.Equal("Gloves", name)
	s.True(resolved.Equal(amount))
}

func (s *PricingServiceSuite) TestResolveProductChargeFallsBackToCatalog() {
	catalog := map[string]*product.Product{
		"prod_1": {
			ID:        "prod_1",
			Name:      "Gloves",
			BasePrice: decimal.NewFromInt(40),
			PricesByLocation: map[string]decimal.Decimal{
				"loc_downtown": decimal.NewFromInt(45),
			},
		},
	}
	c := &ledger.ProductCharge{ID: "chrg_1", ProductID: "prod_1"}

	name, resolved := s.service.ResolveProductCharge(c, catalog, "loc_downtown")
	s.Equal("Gloves", name)
	s.True(resolved.Equal(decimal.NewFromInt(45)))

	// Unknown location falls back to the base price
	_, resolved = s.service.ResolveProductCharge(c, catalog, "loc_other")
	s.True(resolved.Equal(decimal.NewFromInt(40)))
}

func (s *PricingServiceSuite) TestResolveProductChargeDeletedProduct() {
	c := &ledger.ProductCharge{ID: "chrg_1", ProductID: "prod_gone"}

	name, resolved := s.service.ResolveProductCharge(c, map[string]*product.Product{}, "loc_any")
	s.Equal(ProductNotFoundName, name)
	s.True(resolved.IsZero())
}
