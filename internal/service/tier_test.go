package service

import (
	"testing"
	"time"

	"github.com/kivee/kivee/internal/api/dto"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/testutil"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TierServiceSuite struct {
	testutil.BaseServiceTestSuite
	service TierService
}

func TestTierService(t *testing.T) {
	suite.Run(t, new(TierServiceSuite))
}

func (s *TierServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewTierService(s.GetStores().TierRepo, s.GetLogger())
}

func (s *TierServiceSuite) TestCreateTier() {
	resp, err := s.service.CreateTier(s.GetContext(), dto.CreateTierRequest{
		Name:                 "MMA Basic",
		ClassesPerWeek:       3,
		ClassDurationMinutes: 60,
		DefaultPriceVariants: []dto.PriceVariantRequest{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(100))},
		},
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Equal("MMA Basic", resp.Name)
	s.Len(resp.DefaultPriceVariants, 1)
}

func (s *TierServiceSuite) TestCreateTierRequiresName() {
	_, err := s.service.CreateTier(s.GetContext(), dto.CreateTierRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TierServiceSuite) TestCreateTierRejectsDuplicateStandardPeriod() {
	_, err := s.service.CreateTier(s.GetContext(), dto.CreateTierRequest{
		Name: "Broken",
		DefaultPriceVariants: []dto.PriceVariantRequest{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(100))},
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(90))},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TierServiceSuite) TestCreateTierAllowsRepeatedCustomTerms() {
	resp, err := s.service.CreateTier(s.GetContext(), dto.CreateTierRequest{
		Name: "Camps",
		DefaultPriceVariants: []dto.PriceVariantRequest{
			{
				BillingPeriod:  types.BILLING_PERIOD_CUSTOM_TERM,
				Price:          lo.ToPtr(decimal.NewFromInt(300)),
				CustomTermName: "Summer 2024",
				TermEndDate:    lo.ToPtr(time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)),
			},
			{
				BillingPeriod:  types.BILLING_PERIOD_CUSTOM_TERM,
				Price:          lo.ToPtr(decimal.NewFromInt(280)),
				CustomTermName: "Winter 2024",
				TermEndDate:    lo.ToPtr(time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)),
			},
		},
	})
	s.NoError(err)
	s.Len(resp.DefaultPriceVariants, 2)
}

func (s *TierServiceSuite) TestCreateTierRejectsNegativePrice() {
	_, err := s.service.CreateTier(s.GetContext(), dto.CreateTierRequest{
		Name: "Broken",
		DefaultPriceVariants: []dto.PriceVariantRequest{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(-10))},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TierServiceSuite) TestUpdateTier() {
	ctx := s.GetContext()
	created, err := s.service.CreateTier(ctx, dto.CreateTierRequest{
		Name: "MMA Basic",
		DefaultPriceVariants: []dto.PriceVariantRequest{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(100))},
		},
	})
	s.NoError(err)

	resp, err := s.service.UpdateTier(ctx, created.ID, dto.UpdateTierRequest{
		Name:           lo.ToPtr("MMA Basic Plus"),
		ClassesPerWeek: lo.ToPtr(4),
	})
	s.NoError(err)
	s.Equal("MMA Basic Plus", resp.Name)
	s.Equal(4, resp.ClassesPerWeek)
	// Untouched fields survive the patch
	s.Len(resp.DefaultPriceVariants, 1)
}

func (s *TierServiceSuite) TestUpdateTierValidatesVariants() {
	ctx := s.GetContext()
	created, err := s.service.CreateTier(ctx, dto.CreateTierRequest{
		Name: "MMA Basic",
		DefaultPriceVariants: []dto.PriceVariantRequest{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(100))},
		},
	})
	s.NoError(err)

	_, err = s.service.UpdateTier(ctx, created.ID, dto.UpdateTierRequest{
		DefaultPriceVariants: []dto.PriceVariantRequest{
			{BillingPeriod: types.BILLING_PERIOD_ANNUAL, Price: lo.ToPtr(decimal.NewFromInt(1000))},
			{BillingPeriod: types.BILLING_PERIOD_ANNUAL, Price: lo.ToPtr(decimal.NewFromInt(900))},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TierServiceSuite) TestDeleteTierHidesItFromReads() {
	ctx := s.GetContext()
	created, err := s.service.CreateTier(ctx, dto.CreateTierRequest{
		Name: "MMA Basic",
		DefaultPriceVariants: []dto.PriceVariantRequest{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(100))},
		},
	})
	s.NoError(err)

	s.NoError(s.service.DeleteTier(ctx, created.ID))

	_, err = s.service.GetTier(ctx, created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListTiers(ctx)
	s.NoError(err)
	s.Equal(0, list.Total)
}

func (s *TierServiceSuite) TestGetTierNotFound() {
	_, err := s.service.GetTier(s.GetContext(), "tier_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
