package dto

import (
	"time"

	"github.com/kivee/kivee/internal/domain/ledger"
	"github.com/kivee/kivee/internal/types"
	"github.com/shopspring/decimal"
)

// PaymentRecord is the uniform finance-view row a ledger charge flattens
// into, regardless of variant
type PaymentRecord struct {
	StudentID     string                  `json:"student_id"`
	StudentName   string                  `json:"student_name"`
	ChargeID      string                  `json:"charge_id"`
	Kind          ledger.ChargeKind       `json:"kind"`
	ItemName      string                  `json:"item_name"`
	Amount        decimal.Decimal         `json:"amount"`
	DisplayAmount string                  `json:"display_amount"`
	Status        types.PaymentStatus     `json:"status"`
	DueDate       *time.Time              `json:"due_date,omitempty"`
	PaidAt        *time.Time              `json:"paid_at,omitempty"`
	PaymentMethod types.PaymentMethodType `json:"payment_method,omitempty"`
	ReceiptNumber string                  `json:"receipt_number,omitempty"`
}

type ListPaymentsResponse struct {
	Items []PaymentRecord `json:"items"`
	Total int             `json:"total"`
}
