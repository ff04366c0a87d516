package service

import (
	"testing"
	"time"

	"github.com/kivee/kivee/internal/api/dto"
	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/tier"
	"github.com/kivee/kivee/internal/domain/trial"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/testutil"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StudentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  StudentService
	testData struct {
		tiers struct {
			basic    *tier.Tier
			pro      *tier.Tier
			unpriced *tier.Tier
		}
		trials struct {
			weekPass *trial.Trial
		}
	}
}

func TestStudentService(t *testing.T) {
	suite.Run(t, new(StudentServiceSuite))
}

func (s *StudentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *StudentServiceSuite) setupService() {
	pricing := NewPricingService(s.GetLogger())
	billing := NewBillingService(
		s.GetDB(),
		s.GetStores().StudentRepo,
		s.GetStores().TierRepo,
		pricing,
		s.GetLogger(),
	)
	s.service = NewStudentService(
		s.GetDB(),
		s.GetStores().StudentRepo,
		s.GetStores().TierRepo,
		s.GetStores().TrialRepo,
		pricing,
		billing,
		s.GetLogger(),
	)
}

func (s *StudentServiceSuite) setupTestData() {
	ctx := s.GetContext()

	s.testData.tiers.basic = &tier.Tier{
		ID:   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TIER),
		Name: "MMA Basic",
		DefaultPriceVariants: []tier.PriceVariant{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(100))},
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().TierRepo.Create(ctx, s.testData.tiers.basic))

	s.testData.tiers.pro = &tier.Tier{
		ID:   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TIER),
		Name: "MMA Pro",
		DefaultPriceVariants: []tier.PriceVariant{
			{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(120))},
			{BillingPeriod: types.BILLING_PERIOD_ANNUAL, Price: lo.ToPtr(decimal.NewFromInt(1200))},
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().TierRepo.Create(ctx, s.testData.tiers.pro))

	s.testData.tiers.unpriced = &tier.Tier{
		ID:                        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TIER),
		Name:                      "Kids Only",
		DifferentPricesByLocation: true,
		PriceVariantsByLocation: map[string][]tier.PriceVariant{
			"loc_other": {
				{BillingPeriod: types.BILLING_PERIOD_MONTHLY, Price: lo.ToPtr(decimal.NewFromInt(60))},
			},
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().TierRepo.Create(ctx, s.testData.tiers.unpriced))

	s.testData.trials.weekPass = &trial.Trial{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRIAL),
		Name:           "Week Pass",
		DurationInDays: 7,
		PricesByLocation: map[string]decimal.Decimal{
			"loc_main": decimal.NewFromInt(25),
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().TrialRepo.Create(ctx, s.testData.trials.weekPass))
}

func (s *StudentServiceSuite) createStudent(locationID string) *dto.StudentResponse {
	resp, err := s.service.CreateStudent(s.GetContext(), dto.CreateStudentRequest{
		FirstName:  "Ana",
		LastName:   "Silva",
		LocationID: locationID,
	})
	s.NoError(err)
	return resp
}

func (s *StudentServiceSuite) TestCreateStudent() {
	resp := s.createStudent("loc_main")
	s.NotEmpty(resp.ID)
	s.Equal("Ana Silva", resp.FullName())
	s.Empty(resp.Ledger)
}

func (s *StudentServiceSuite) TestCreateStudentRequiresLocation() {
	_, err := s.service.CreateStudent(s.GetContext(), dto.CreateStudentRequest{
		FirstName: "Ana",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *StudentServiceSuite) TestAssignTierCreatesFirstCycle() {
	ctx := s.GetContext()
	stu := s.createStudent("loc_main")

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	resp, err := s.service.AssignPlan(ctx, stu.ID, dto.AssignPlanRequest{
		Type:      types.PlanTypeTier,
		ID:        s.testData.tiers.basic.ID,
		StartDate: &start,
	})
	s.NoError(err)

	s.NotNil(resp.Plan)
	s.Equal(types.PlanTypeTier, resp.Plan.Type)
	s.Equal(s.testData.tiers.basic.ID, resp.Plan.ID)

	subs := resp.Ledger.Subscriptions()
	s.Len(subs, 1)
	s.Equal(types.PaymentStatusUnpaid, subs[0].Status)
	s.True(subs[0].Amount.Equal(decimal.NewFromInt(100)))
	s.True(subs[0].DueDate.Equal(start))
}

func (s *StudentServiceSuite) TestAssignTierNoPriceForLocation() {
	ctx := s.GetContext()
	stu := s.createStudent("loc_main")

	_, err := s.service.AssignPlan(ctx, stu.ID, dto.AssignPlanRequest{
		Type: types.PlanTypeTier,
		ID:   s.testData.tiers.unpriced.ID,
	})
	s.Error(err)
	s.True(ierr.IsPriceNotSet(err))

	// The failed assignment left the student untouched
	stored, err := s.GetStores().StudentRepo.Get(ctx, stu.ID)
	s.NoError(err)
	s.Nil(stored.Plan)
	s.Empty(stored.Ledger)
}

func (s *StudentServiceSuite) TestAssignTierAmbiguousRequiresBillingPeriod() {
	ctx := s.GetContext()
	stu := s.createStudent("loc_main")

	_, err := s.service.AssignPlan(ctx, stu.ID, dto.AssignPlanRequest{
		Type: types.PlanTypeTier,
		ID:   s.testData.tiers.pro.ID,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	resp, err := s.service.AssignPlan(ctx, stu.ID, dto.AssignPlanRequest{
		Type:          types.PlanTypeTier,
		ID:            s.testData.tiers.pro.ID,
		BillingPeriod: lo.ToPtr(types.BILLING_PERIOD_ANNUAL),
	})
	s.NoError(err)

	subs := resp.Ledger.Subscriptions()
	s.Len(subs, 1)
	s.True(subs[0].Amount.Equal(decimal.NewFromInt(1200)))
}

func (s *StudentServiceSuite) TestAssignTrial() {
	ctx := s.GetContext()
	stu := s.createStudent("loc_main")

	resp, err := s.service.AssignPlan(ctx, stu.ID, dto.AssignPlanRequest{
		Type: types.PlanTypeTrial,
		ID:   s.testData.trials.weekPass.ID,
	})
	s.NoError(err)

	s.NotNil(resp.Plan)
	s.Equal(types.PlanTypeTrial, resp.Plan.Type)
	// Trials do not open a billing cycle
	s.Empty(resp.Ledger)
}

func (s *StudentServiceSuite) TestAssignTrialNoPriceForLocation() {
	ctx := s.GetContext()
	stu := s.createStudent("loc_unpriced")

	_, err := s.service.AssignPlan(ctx, stu.ID, dto.AssignPlanRequest{
		Type: types.PlanTypeTrial,
		ID:   s.testData.trials.weekPass.ID,
	})
	s.Error(err)
	s.True(ierr.IsPriceNotSet(err))
}

func (s *StudentServiceSuite) TestGetStudentReconcilesAndAnnotates() {
	ctx := s.GetContext()
	stu := s.createStudent("loc_main")
	t := s.testData.tiers.basic

	start := time.Now().UTC().AddDate(0, -2, 0)
	s.NoError(s.GetStores().StudentRepo.UpdateLedger(ctx, stu.ID, ledger.Ledger{
		ledger.NewSubscriptionCharge(t.ID, t.Name, decimal.NewFromInt(100), start),
	}))

	resp, err := s.service.GetStudent(ctx, stu.ID)
	s.NoError(err)

	subs := resp.Ledger.Subscriptions()
	s.Len(subs, 3)

	s.NotEmpty(resp.Expiry)
	for _, c := range subs {
		info, ok := resp.Expiry[c.ID]
		s.True(ok)
		s.NotZero(info.EffectiveExpiry)
	}
}

func (s *StudentServiceSuite) TestUpdateStudent() {
	ctx := s.GetContext()
	stu := s.createStudent("loc_main")

	resp, err := s.service.UpdateStudent(ctx, stu.ID, dto.UpdateStudentRequest{
		Phone:      lo.ToPtr("+55 11 99999-0000"),
		LocationID: lo.ToPtr("loc_downtown"),
	})
	s.NoError(err)
	s.Equal("+55 11 99999-0000", resp.Phone)
	s.Equal("loc_downtown", resp.LocationID)
}

func (s *StudentServiceSuite) TestDeleteStudent() {
	ctx := s.GetContext()
	stu := s.createStudent("loc_main")

	s.NoError(s.service.DeleteStudent(ctx, stu.ID))

	_, err := s.service.GetStudent(ctx, stu.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
