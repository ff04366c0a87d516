package ledger

import (
	"encoding/json"
	"fmt"
)

// The persisted document shape keeps both variants in one JSON array and
// discriminates on payment_for: "tier" marks a subscription charge,
// anything else is a product charge. This mirrors the document layout the
// ledger was migrated from, so old data round-trips unchanged.

type subscriptionChargeJSON struct {
	PaymentFor string `json:"payment_for"`
	SubscriptionCharge
}

type productChargeJSON struct {
	PaymentFor string `json:"payment_for,omitempty"`
	ProductCharge
}

// MarshalJSON implements json.Marshaler for the charge union
func (l Ledger) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(l))
	for _, c := range l {
		var (
			raw []byte
			err error
		)
		switch charge := c.(type) {
		case *SubscriptionCharge:
			raw, err = json.Marshal(subscriptionChargeJSON{
				PaymentFor:         string(ChargeKindSubscription),
				SubscriptionCharge: *charge,
			})
		case *ProductCharge:
			raw, err = json.Marshal(productChargeJSON{
				PaymentFor:    string(ChargeKindProduct),
				ProductCharge: *charge,
			})
		default:
			err = fmt.Errorf("unknown charge variant %T", c)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler for the charge union
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Ledger, 0, len(raws))
	for _, raw := range raws {
		var probe struct {
			PaymentFor string `json:"payment_for"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return err
		}

		if probe.PaymentFor == string(ChargeKindSubscription) {
			var c SubscriptionCharge
			if err := json.Unmarshal(raw, &c); err != nil {
				return err
			}
			out = append(out, &c)
			continue
		}

		// Entries without a payment_for tag are product purchases
		var c ProductCharge
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		out = append(out, &c)
	}

	*l = out
	return nil
}
