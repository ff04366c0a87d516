package types

import (
	"time"

	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/samber/lo"
)

// BillingPeriod is the cadence of a tier's recurring charge
// ex MONTHLY, SEMI_ANNUAL, ANNUAL, CUSTOM_TERM, CUSTOM_DURATION
type BillingPeriod string

const (
	BILLING_PERIOD_MONTHLY         BillingPeriod = "MONTHLY"
	BILLING_PERIOD_SEMI_ANNUAL     BillingPeriod = "SEMI_ANNUAL"
	BILLING_PERIOD_ANNUAL          BillingPeriod = "ANNUAL"
	BILLING_PERIOD_CUSTOM_TERM     BillingPeriod = "CUSTOM_TERM"
	BILLING_PERIOD_CUSTOM_DURATION BillingPeriod = "CUSTOM_DURATION"
)

// StandardBillingPeriods are the periods a tier may offer at most one
// price variant for per location. Custom variants are unconstrained in count.
var StandardBillingPeriods = []BillingPeriod{
	BILLING_PERIOD_MONTHLY,
	BILLING_PERIOD_SEMI_ANNUAL,
	BILLING_PERIOD_ANNUAL,
}

func (p BillingPeriod) String() string {
	return string(p)
}

// IsStandard returns true for the fixed-cadence calendar periods
func (p BillingPeriod) IsStandard() bool {
	return lo.Contains(StandardBillingPeriods, p)
}

// Advances returns true when a due date can be rolled forward by one
// period. Custom terms have a fixed end date and never advance; an
// unknown period is terminal as well.
func (p BillingPeriod) Advances() bool {
	switch p {
	case BILLING_PERIOD_MONTHLY, BILLING_PERIOD_SEMI_ANNUAL,
		BILLING_PERIOD_ANNUAL, BILLING_PERIOD_CUSTOM_DURATION:
		return true
	default:
		return false
	}
}

func (p BillingPeriod) Validate() error {
	allowed := []BillingPeriod{
		BILLING_PERIOD_MONTHLY,
		BILLING_PERIOD_SEMI_ANNUAL,
		BILLING_PERIOD_ANNUAL,
		BILLING_PERIOD_CUSTOM_TERM,
		BILLING_PERIOD_CUSTOM_DURATION,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid billing period").
			WithHint("Invalid billing period").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DurationUnit is the unit of a CUSTOM_DURATION billing period
type DurationUnit string

const (
	DURATION_UNIT_DAYS   DurationUnit = "DAYS"
	DURATION_UNIT_WEEKS  DurationUnit = "WEEKS"
	DURATION_UNIT_MONTHS DurationUnit = "MONTHS"
)

func (u DurationUnit) Validate() error {
	allowed := []DurationUnit{
		DURATION_UNIT_DAYS,
		DURATION_UNIT_WEEKS,
		DURATION_UNIT_MONTHS,
	}
	if !lo.Contains(allowed, u) {
		return ierr.NewError("invalid duration unit").
			WithHint("Invalid duration unit").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": u,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CustomDuration is the length of a CUSTOM_DURATION billing cycle
// ex 10 days, 2 weeks, 3 months
type CustomDuration struct {
	Unit   DurationUnit `json:"unit"`
	Amount int          `json:"amount"`
}

func (d CustomDuration) Validate() error {
	if err := d.Unit.Validate(); err != nil {
		return err
	}
	if d.Amount <= 0 {
		return ierr.NewError("duration amount must be a positive integer").
			WithHint("Duration amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"provided_value": d.Amount,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingCycle is the fully resolved cadence of a subscription charge:
// the billing period plus the period-specific fields needed to advance
// or expire it.
type BillingCycle struct {
	Period BillingPeriod `json:"period"`

	// Duration is set when Period is CUSTOM_DURATION
	Duration *CustomDuration `json:"duration,omitempty"`

	// TermEnd is set when Period is CUSTOM_TERM and marks the fixed
	// end of the term regardless of due dates
	TermEnd *time.Time `json:"term_end,omitempty"`
}

// PaymentStatus represents the status of a ledger charge
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusUnpaid,
		PaymentStatusPaid,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment status").
			WithHint("Invalid payment status").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentMethodType represents how a charge was settled
type PaymentMethodType string

const (
	PaymentMethodTypeCash     PaymentMethodType = "CASH"
	PaymentMethodTypeCard     PaymentMethodType = "CARD"
	PaymentMethodTypeTransfer PaymentMethodType = "TRANSFER"
	PaymentMethodTypeOther    PaymentMethodType = "OTHER"
)

func (t PaymentMethodType) Validate() error {
	allowed := []PaymentMethodType{
		PaymentMethodTypeCash,
		PaymentMethodTypeCard,
		PaymentMethodTypeTransfer,
		PaymentMethodTypeOther,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid payment method").
			WithHint("Invalid payment method").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanType discriminates a student's assigned plan
type PlanType string

const (
	PlanTypeTier  PlanType = "TIER"
	PlanTypeTrial PlanType = "TRIAL"
)

func (t PlanType) Validate() error {
	allowed := []PlanType{PlanTypeTier, PlanTypeTrial}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid plan type").
			WithHint("Invalid plan type").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ExpiryStatus is the advisory display status of a subscription charge
type ExpiryStatus string

const (
	ExpiryStatusOK      ExpiryStatus = "OK"
	ExpiryStatusSoon    ExpiryStatus = "SOON"
	ExpiryStatusExpired ExpiryStatus = "EXPIRED"
)

// ExpirySoonWindow is how far ahead of the effective expiry a charge
// is flagged as expiring soon
const ExpirySoonWindow = 10 * 24 * time.Hour

// ExpiryInfo annotates a subscription charge for display. It never feeds
// back into the ledger; generating missed cycles is reconciliation's job.
type ExpiryInfo struct {
	EffectiveExpiry time.Time    `json:"effective_expiry"`
	Status          ExpiryStatus `json:"status"`
}
