package service

import (
	"testing"
	"time"

	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/product"
	"github.com/kivee/kivee/internal/domain/student"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/testutil"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PaymentService
	testData struct {
		products struct {
			gloves *product.Product
		}
		students struct {
			student1 *student.Student
			student2 *student.Student
		}
		now time.Time
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *PaymentServiceSuite) setupService() {
	pricing := NewPricingService(s.GetLogger())
	s.service = NewPaymentService(
		s.GetDB(),
		s.GetStores().StudentRepo,
		s.GetStores().ProductRepo,
		pricing,
		s.GetConfig(),
		s.GetLogger(),
	)
}

func (s *PaymentServiceSuite) setupTestData() {
	ctx := s.GetContext()
	s.testData.now = time.Now().UTC()

	s.testData.products.gloves = &product.Product{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:      "Gloves",
		BasePrice: decimal.NewFromInt(40),
		PricesByLocation: map[string]decimal.Decimal{
			"loc_downtown": decimal.NewFromInt(45),
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().ProductRepo.Create(ctx, s.testData.products.gloves))

	s.testData.students.student1 = &student.Student{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_STUDENT),
		FirstName:  "Ana",
		LastName:   "Silva",
		LocationID: "loc_downtown",
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().StudentRepo.Create(ctx, s.testData.students.student1))

	s.testData.students.student2 = &student.Student{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_STUDENT),
		FirstName:  "Bruno",
		LocationID: "loc_main",
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().StudentRepo.Create(ctx, s.testData.students.student2))
}

func (s *PaymentServiceSuite) TestAggregateOrdering() {
	now := s.testData.now
	stu1 := s.testData.students.student1
	stu2 := s.testData.students.student2

	unpaidOld := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -2, 0))
	unpaidNew := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -1, 0))
	unpaidUndated := &ledger.ProductCharge{
		ID:        "chrg_undated",
		ProductID: s.testData.products.gloves.ID,
		PaymentDetails: ledger.PaymentDetails{
			Status: types.PaymentStatusUnpaid,
		},
	}

	paidEarlier := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -4, 0))
	s.NoError(ledger.MarkPaid(paidEarlier, now.AddDate(0, -3, 0), types.PaymentMethodTypeCash, now))
	paidLater := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -3, 0))
	s.NoError(ledger.MarkPaid(paidLater, now.AddDate(0, -1, 0), types.PaymentMethodTypeCard, now))

	stu1.Ledger = ledger.Ledger{unpaidUndated, paidEarlier, unpaidNew}
	stu2.Ledger = ledger.Ledger{paidLater, unpaidOld}

	catalog := map[string]*product.Product{
		s.testData.products.gloves.ID: s.testData.products.gloves,
	}
	records := s.service.Aggregate([]*student.Student{stu1, stu2}, catalog)
	s.Len(records, 5)

	// Unpaid first: dated ascending, undated last
	s.Equal(unpaidOld.ID, records[0].ChargeID)
	s.Equal(unpaidNew.ID, records[1].ChargeID)
	s.Equal(unpaidUndated.ID, records[2].ChargeID)

	// Paid after, most recent settlement first
	s.Equal(paidLater.ID, records[3].ChargeID)
	s.Equal(paidEarlier.ID, records[4].ChargeID)
}

func (s *PaymentServiceSuite) TestAggregateResolvesProductPricing() {
	stu := s.testData.students.student1
	stu.Ledger = ledger.Ledger{
		&ledger.ProductCharge{
			ID:        "chrg_1",
			ProductID: s.testData.products.gloves.ID,
			PaymentDetails: ledger.PaymentDetails{
				Status: types.PaymentStatusUnpaid,
			},
		},
	}

	catalog := map[string]*product.Product{
		s.testData.products.gloves.ID: s.testData.products.gloves,
	}
	records := s.service.Aggregate([]*student.Student{stu}, catalog)
	s.Len(records, 1)
	s.Equal("Gloves", records[0].ItemName)
	s.True(records[0].Amount.Equal(decimal.NewFromInt(45))) // loc_downtown price
	s.Equal("$45.00", records[0].DisplayAmount)
}

func (s *PaymentServiceSuite) TestListPaymentsFiltersByStatus() {
	ctx := s.GetContext()
	now := s.testData.now
	stu := s.testData.students.student1

	paid := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -1, 0))
	s.NoError(ledger.MarkPaid(paid, now.AddDate(0, 0, -1), types.PaymentMethodTypeCash, now))
	unpaid := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now)
	s.NoError(s.GetStores().StudentRepo.UpdateLedger(ctx, stu.ID, ledger.Ledger{paid, unpaid}))

	records, err := s.service.ListPayments(ctx, nil)
	s.NoError(err)
	s.Len(records, 2)

	records, err = s.service.ListPayments(ctx, lo.ToPtr(types.PaymentStatusUnpaid))
	s.NoError(err)
	s.Len(records, 1)
	s.Equal(unpaid.ID, records[0].ChargeID)
}

func (s *PaymentServiceSuite) TestRecordPayment() {
	ctx := s.GetContext()
	now := s.testData.now
	stu := s.testData.students.student1

	charge := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -1, 0))
	s.NoError(s.GetStores().StudentRepo.UpdateLedger(ctx, stu.ID, ledger.Ledger{charge}))

	paidAt := now.AddDate(0, 0, -1)
	out, err := s.service.RecordPayment(ctx, stu.ID, charge.ID, paidAt, types.PaymentMethodTypeCard)
	s.NoError(err)

	got, ok := out.Ledger.Find(charge.ID)
	s.True(ok)
	s.Equal(types.PaymentStatusPaid, got.PaymentStatus())

	sub := got.(*ledger.SubscriptionCharge)
	s.Equal(types.PaymentMethodTypeCard, sub.PaymentMethod)
	s.NotEmpty(sub.ReceiptNumber)
	s.True(sub.PaidAt.Equal(paidAt))
}

func (s *PaymentServiceSuite) TestRecordPaymentRejectsFutureDate() {
	ctx := s.GetContext()
	stu := s.testData.students.student1

	charge := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), s.testData.now)
	s.NoError(s.GetStores().StudentRepo.UpdateLedger(ctx, stu.ID, ledger.Ledger{charge}))

	_, err := s.service.RecordPayment(ctx, stu.ID, charge.ID, s.testData.now.AddDate(0, 0, 2), types.PaymentMethodTypeCash)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Nothing was persisted
	stored, err := s.GetStores().StudentRepo.Get(ctx, stu.ID)
	s.NoError(err)
	got, ok := stored.Ledger.Find(charge.ID)
	s.True(ok)
	s.Equal(types.PaymentStatusUnpaid, got.PaymentStatus())
}

func (s *PaymentServiceSuite) TestRecordPaymentAlreadyPaid() {
	ctx := s.GetContext()
	now := s.testData.now
	stu := s.testData.students.student1

	charge := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -1, 0))
	s.NoError(ledger.MarkPaid(charge, now.AddDate(0, 0, -2), types.PaymentMethodTypeCash, now))
	s.NoError(s.GetStores().StudentRepo.UpdateLedger(ctx, stu.ID, ledger.Ledger{charge}))

	_, err := s.service.RecordPayment(ctx, stu.ID, charge.ID, now.AddDate(0, 0, -1), types.PaymentMethodTypeCash)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestRecordPaymentChargeNotFound() {
	_, err := s.service.RecordPayment(s.GetContext(), s.testData.students.student1.ID, "chrg_missing", s.testData.now, types.PaymentMethodTypeCash)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestRemoveCharge() {
	ctx := s.GetContext()
	stu := s.testData.students.student1

	charge := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), s.testData.now)
	s.NoError(s.GetStores().StudentRepo.UpdateLedger(ctx, stu.ID, ledger.Ledger{charge}))

	out, err := s.service.RemoveCharge(ctx, stu.ID, charge.ID)
	s.NoError(err)
	s.Empty(out.Ledger)
}

func (s *PaymentServiceSuite) TestRemoveChargeRejectsPaid() {
	ctx := s.GetContext()
	now := s.testData.now
	stu := s.testData.students.student1

	charge := ledger.NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -1, 0))
	s.NoError(ledger.MarkPaid(charge, now.AddDate(0, 0, -1), types.PaymentMethodTypeCash, now))
	s.NoError(s.GetStores().StudentRepo.UpdateLedger(ctx, stu.ID, ledger.Ledger{charge}))

	_, err := s.service.RemoveCharge(ctx, stu.ID, charge.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestAddProductCharge() {
	ctx := s.GetContext()
	stu := s.testData.students.student1

	out, err := s.service.AddProductCharge(ctx, stu.ID, s.testData.products.gloves.ID)
	s.NoError(err)
	s.Len(out.Ledger, 1)

	charge := out.Ledger[0].(*ledger.ProductCharge)
	s.Equal("Gloves", charge.ProductName)
	s.NotNil(charge.Amount)
	s.True(charge.Amount.Equal(decimal.NewFromInt(45))) // frozen at loc_downtown price
	s.Equal(types.PaymentStatusUnpaid, charge.Status)
}

func (s *PaymentServiceSuite) TestAddProductChargeUnknownProduct() {
	_, err := s.service.AddProductCharge(s.GetContext(), s.testData.students.student1.ID, "prod_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
