package ledger

import (
	"time"

	ierr "github.com/kivee/kivee/internal/errors"
	"github.com/kivee/kivee/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ChargeKind discriminates the two ledger entry variants
type ChargeKind string

const (
	ChargeKindSubscription ChargeKind = "tier"
	ChargeKindProduct      ChargeKind = "product"
)

// Charge is one entry in a student's payment ledger. The set of
// implementations is closed: SubscriptionCharge and ProductCharge.
type Charge interface {
	// Kind reports which variant this charge is
	Kind() ChargeKind
	// ChargeID returns the entry's unique id
	ChargeID() string
	// PaymentStatus returns the settlement status
	PaymentStatus() types.PaymentStatus

	charge()
}

// PaymentDetails carries the settlement fields shared by both variants.
// Flipping a charge to paid fills these; nothing else on a charge is
// mutated after creation.
type PaymentDetails struct {
	Status        types.PaymentStatus     `json:"status"`
	PaidAt        *time.Time              `json:"paid_at,omitempty"`
	PaymentMethod types.PaymentMethodType `json:"payment_method,omitempty"`
	ReceiptNumber string                  `json:"receipt_number,omitempty"`
	ReceiptURL    string                  `json:"receipt_url,omitempty"`
}

// SubscriptionCharge is one billing cycle of a tier subscription. Amount
// and due date are immutable facts about that cycle once created.
type SubscriptionCharge struct {
	ID       string          `json:"id"`
	TierID   string          `json:"item_id"`
	TierName string          `json:"item_name"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"due_date"`
	PaymentDetails
}

func (c *SubscriptionCharge) Kind() ChargeKind                   { return ChargeKindSubscription }
func (c *SubscriptionCharge) ChargeID() string                   { return c.ID }
func (c *SubscriptionCharge) PaymentStatus() types.PaymentStatus { return c.Status }
func (c *SubscriptionCharge) charge()                            {}

// ProductCharge is a one-time product purchase. Name and amount may be
// stored on the entry; when absent they resolve from the product catalog
// at read time.
type ProductCharge struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	PurchasedAt *time.Time       `json:"purchased_at,omitempty"`
	PaymentDetails
}

func (c *ProductCharge) Kind() ChargeKind                   { return ChargeKindProduct }
func (c *ProductCharge) ChargeID() string                   { return c.ID }
func (c *ProductCharge) PaymentStatus() types.PaymentStatus { return c.Status }
func (c *ProductCharge) charge()                            {}

// NewSubscriptionCharge creates an unpaid charge for one billing cycle
func NewSubscriptionCharge(tierID, tierName string, amount decimal.Decimal, dueDate time.Time) *SubscriptionCharge {
	return &SubscriptionCharge{
		ID:       types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		TierID:   tierID,
		TierName: tierName,
		Amount:   amount,
		DueDate:  dueDate,
		PaymentDetails: PaymentDetails{
			Status: types.PaymentStatusUnpaid,
		},
	}
}

// NewProductCharge creates an unpaid product purchase entry
func NewProductCharge(productID, productName string, amount *decimal.Decimal, purchasedAt time.Time) *ProductCharge {
	return &ProductCharge{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		ProductID:   productID,
		ProductName: productName,
		Amount:      amount,
		PurchasedAt: &purchasedAt,
		PaymentDetails: PaymentDetails{
			Status: types.PaymentStatusUnpaid,
		},
	}
}

// MarkPaid flips the settlement fields on a charge. Future-dated payments
// are rejected before any write.
func MarkPaid(c Charge, paidAt time.Time, method types.PaymentMethodType, now time.Time) error {
	if err := method.Validate(); err != nil {
		return err
	}
	if paidAt.After(now) {
		return ierr.NewError("payment date is in the future").
			WithHint("Payment date cannot be in the future").
			WithReportableDetails(map[string]any{
				"paid_at": paidAt,
			}).
			Mark(ierr.ErrValidation)
	}
	if c.PaymentStatus() == types.PaymentStatusPaid {
		return ierr.NewError("charge is already paid").
			WithHint("This charge has already been paid").
			Mark(ierr.ErrInvalidOperation)
	}

	details := PaymentDetails{
		Status:        types.PaymentStatusPaid,
		PaidAt:        &paidAt,
		PaymentMethod: method,
		ReceiptNumber: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
	}
	switch charge := c.(type) {
	case *SubscriptionCharge:
		charge.PaymentDetails = details
	case *ProductCharge:
		charge.PaymentDetails = details
	}
	return nil
}

// Ledger is a student's ordered payment history
type Ledger []Charge

// Subscriptions returns the subscription charges in ledger order
func (l Ledger) Subscriptions() []*SubscriptionCharge {
	out := make([]*SubscriptionCharge, 0, len(l))
	for _, c := range l {
		if sc, ok := c.(*SubscriptionCharge); ok {
			out = append(out, sc)
		}
	}
	return out
}

// Products returns the product charges in ledger order
func (l Ledger) Products() []*ProductCharge {
	out := make([]*ProductCharge, 0, len(l))
	for _, c := range l {
		if pc, ok := c.(*ProductCharge); ok {
			out = append(out, pc)
		}
	}
	return out
}

// SubscriptionsByTier groups subscription charges by tier id
func (l Ledger) SubscriptionsByTier() map[string][]*SubscriptionCharge {
	return lo.GroupBy(l.Subscriptions(), func(c *SubscriptionCharge) string {
		return c.TierID
	})
}

// Find returns the charge with the given id, if present
func (l Ledger) Find(chargeID string) (Charge, bool) {
	for _, c := range l {
		if c.ChargeID() == chargeID {
			return c, true
		}
	}
	return nil, false
}

// Remove returns a ledger without the given charge. Only unpaid charges
// may be removed; paid history is permanent.
func (l Ledger) Remove(chargeID string) (Ledger, error) {
	c, ok := l.Find(chargeID)
	if !ok {
		return nil, ierr.NewError("charge not found").
			WithHint("Payment entry not found").
			WithReportableDetails(map[string]any{
				"charge_id": chargeID,
			}).
			Mark(ierr.ErrNotFound)
	}
	if c.PaymentStatus() == types.PaymentStatusPaid {
		return nil, ierr.NewError("cannot remove a paid charge").
			WithHint("Paid entries cannot be removed").
			Mark(ierr.ErrInvalidOperation)
	}
	return lo.Reject(l, func(c Charge, _ int) bool {
		return c.ChargeID() == chargeID
	}), nil
}
