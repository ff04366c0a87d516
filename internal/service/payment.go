package service

import (
	"context"
	"sort"
	"time"

	"github.com/kivee/kivee/internal/api/dto"
	"github.com/kivee/kivee/internal/config"
	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/domain/product"
	"github.com/kivee/kivee/internal/domain/student"
	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
)

type PaymentService interface {
	// Aggregate flattens every student's ledger into finance records.
	// Unpaid records come first, sorted with dated entries ahead of
	// undated ones and ascending by due date; paid records follow,
	// sorted by paid-at descending.
	Aggregate(students []*student.Student, catalog map[string]*product.Product) []dto.PaymentRecord

	// ListPayments returns the academy-wide finance view, optionally
	// filtered to one payment status
	ListPayments(ctx context.Context, status *types.PaymentStatus) ([]dto.PaymentRecord, error)

	// RecordPayment marks a charge paid with the given settlement details
	RecordPayment(ctx context.Context, studentID, chargeID string, paidAt time.Time, method types.PaymentMethodType) (*student.Student, error)

	// RemoveCharge deletes an unpaid charge from a student's ledger
	RemoveCharge(ctx context.Context, studentID, chargeID string) (*student.Student, error)

	// AddProductCharge appends an unpaid product purchase to a
	// student's ledger, pricing it at the student's location
	AddProductCharge(ctx context.Context, studentID, productID string) (*student.Student, error)
}

type paymentService struct {
	studentRepo student.Repository
	productRepo product.Repository
	pricing     PricingService
	client      postgres.IClient
	config      *config.Configuration
	logger      *logger.Logger
}

func NewPaymentService(
	client postgres.IClient,
	studentRepo student.Repository,
	productRepo product.Repository,
	pricing PricingService,
	config *config.Configuration,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		client:      client,
		studentRepo: studentRepo,
		productRepo: productRepo,
		pricing:     pricing,
		config:      config,
		logger:      logger,
	}
}

func (s *paymentService) Aggregate(students []*student.Student, catalog map[string]*product.Product) []dto.PaymentRecord {
	var unpaid, paid []dto.PaymentRecord

	for _, stu := range students {
		for _, c := range stu.Ledger {
			record := s.toRecord(stu, c, catalog)
			if record.Status == types.PaymentStatusPaid {
				paid = append(paid, record)
			} else {
				unpaid = append(unpaid, record)
			}
		}
	}

	// Dated unpaid entries ahead of undated ones, then ascending by due date
	sort.SliceStable(unpaid, func(i, j int) bool {
		a, b := unpaid[i].DueDate, unpaid[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	// Most recent settlements first
	sort.SliceStable(paid, func(i, j int) bool {
		a, b := paid[i].PaidAt, paid[j].PaidAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return append(unpaid, paid...)
}

func (s *paymentService) toRecord(stu *student.Student, c ledger.Charge, catalog map[string]*product.Product) dto.PaymentRecord {
	record := dto.PaymentRecord{
		StudentID:   stu.ID,
		StudentName: stu.FullName(),
		ChargeID:    c.ChargeID(),
		Kind:        c.Kind(),
		Status:      c.PaymentStatus(),
	}

	switch charge := c.(type) {
	case *ledger.SubscriptionCharge:
		// Name and amount were resolved when the cycle was created
		record.ItemName = charge.TierName
		record.Amount = charge.Amount
		dueDate := charge.DueDate
		record.DueDate = &dueDate
		record.PaidAt = charge.PaidAt
		record.PaymentMethod = charge.PaymentMethod
		record.ReceiptNumber = charge.ReceiptNumber
	case *ledger.ProductCharge:
		name, amount := s.pricing.ResolveProductCharge(charge, catalog, stu.LocationID)
		record.ItemName = name
		record.Amount = amount
		record.PaidAt = charge.PaidAt
		record.PaymentMethod = charge.PaymentMethod
		record.ReceiptNumber = charge.ReceiptNumber
	}

	record.DisplayAmount = types.FormatAmountWithCurrency(record.Amount, s.currency())
	return record
}

func (s *paymentService) currency() string {
	if s.config != nil && s.config.Billing.Currency != "" {
		return s.config.Billing.Currency
	}
	return "usd"
}

func (s *paymentService) ListPayments(ctx context.Context, status *types.PaymentStatus) ([]dto.PaymentRecord, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	catalog := lo.KeyBy(products, func(p *product.Product) string { return p.ID })

	records := s.Aggregate(students, catalog)
	if status != nil {
		records = lo.Filter(records, func(r dto.PaymentRecord, _ int) bool {
			return r.Status == *status
		})
	}
	return records, nil
}

func (s *paymentService) RecordPayment(
	ctx context.Context,
	studentID, chargeID string,
	paidAt time.Time,
	method types.PaymentMethodType,
) (*student.Student, error) {
	var out *student.Student

	err := s.client.WithTx(ctx, func(ctx context.Context) error {
		stu, err := s.studentRepo.GetForUpdate(ctx, studentID)
		if err != nil {
			return err
		}

		charge, ok := stu.Ledger.Find(chargeID)
		if !ok {
			return ierr.NewError("charge not found").
				WithHint("Payment entry not found").
				WithReportableDetails(map[string]any{
					"charge_id": chargeID,
				}).
				Mark(ierr.ErrNotFound)
		}

		if err := ledger.MarkPaid(charge, paidAt, method, time.Now().UTC()); err != nil {
			return err
		}

		if err := s.studentRepo.UpdateLedger(ctx, stu.ID, stu.Ledger); err != nil {
			return err
		}

		out = stu
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *paymentService) RemoveCharge(ctx context.Context, studentID, chargeID string) (*student.Student, error) {
	var out *student.Student

	err := s.client.WithTx(ctx, func(ctx context.Context) error {
		stu, err := s.studentRepo.GetForUpdate(ctx, studentID)
		if err != nil {
			return err
		}

		updated, err := stu.Ledger.Remove(chargeID)
		if err != nil {
			return err
		}

		if err := s.studentRepo.UpdateLedger(ctx, stu.ID, updated); err != nil {
			return err
		}

		stu.Ledger = updated
		out = stu
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *paymentService) AddProductCharge(ctx context.Context, studentID, productID string) (*student.Student, error) {
	var out *student.Student

	err := s.client.WithTx(ctx, func(ctx context.Context) error {
		stu, err := s.studentRepo.GetForUpdate(ctx, studentID)
		if err != nil {
			return err
		}

		prod, err := s.productRepo.Get(ctx, productID)
		if err != nil {
			return err
		}

		// Freeze name and location price on the entry at purchase time
		amount := prod.PriceForLocation(stu.LocationID)
		charge := ledger.NewProductCharge(prod.ID, prod.Name, &amount, time.Now().UTC())

		updated := append(stu.Ledger, charge)
		if err := s.studentRepo.UpdateLedger(ctx, stu.ID, updated); err != nil {
			return err
		}

		stu.Ledger = updated
		out = stu
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
