package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kivee/kivee/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerJSONDiscriminator(t *testing.T) {
	sub := NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	amount := decimal.NewFromInt(45)
	prod := NewProductCharge("prod_1", "Gloves", &amount, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(Ledger{sub, prod})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "tier", raw[0]["payment_for"])
	assert.Equal(t, "product", raw[1]["payment_for"])

	var back Ledger
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 2)
	assert.IsType(t, &SubscriptionCharge{}, back[0])
	assert.IsType(t, &ProductCharge{}, back[1])
	assert.Equal(t, sub.ID, back[0].ChargeID())
}

func TestLedgerJSONLegacyEntriesWithoutTag(t *testing.T) {
	// Documents written before the tag existed omit payment_for on
	// product purchases
	data := []byte(`[{"id":"chrg_legacy","product_id":"prod_1","status":"UNPAID"}]`)

	var l Ledger
	require.NoError(t, json.Unmarshal(data, &l))
	require.Len(t, l, 1)

	pc, ok := l[0].(*ProductCharge)
	require.True(t, ok)
	assert.Equal(t, "prod_1", pc.ProductID)
	assert.Equal(t, types.PaymentStatusUnpaid, pc.Status)
}

func TestLedgerRemoveOnlyUnpaid(t *testing.T) {
	now := time.Now().UTC()
	unpaid := NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now)
	paid := NewSubscriptionCharge("tier_1", "Basic", decimal.NewFromInt(100), now.AddDate(0, -1, 0))
	require.NoError(t, MarkPaid(paid, now.AddDate(0, 0, -1), types.PaymentMethodTypeCash, now))

	l := Ledger{unpaid, paid}

	out, err := l.Remove(unpaid.ID)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = l.Remove(paid.ID)
	assert.Error(t, err)

	_, err = l.Remove("chrg_missing")
	assert.Error(t, err)
}
