package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashItem_EffectiveDate(t *testing.T) {
	item := CashItem{OriginalDueDate: MustParseDate("2025-03-01")}
	assert.Equal(t, "2025-03-01", item.EffectiveDate().String())
	assert.False(t, item.IsRenegotiated())

	item.RenegotiatedDueDate = MustParseDate("2025-04-10").Ptr()
	assert.Equal(t, "2025-04-10", item.EffectiveDate().String())

	item.RenegotiatedDueDate = &Date{}
	assert.Equal(t, "2025-03-01", item.EffectiveDate().String(), "invalid renegotiated dates are ignored")
}

func TestCashItem_Keys(t *testing.T) {
	item := CashItem{
		Branch:           "01",
		DocumentNumber:   "NF-1",
		InstallmentTag:   "1/2",
		Payee:            "P1",
		CounterpartyName: "ACME Ltda",
		OriginalDueDate:  MustParseDate("2025-03-01"),
	}
	assert.Equal(t, "2025-03-01|ACME Ltda", item.NaturalKey())
	assert.Equal(t, "01|NF-1|1/2|P1|2025-03-01", item.IdentityKey())
}

func TestCashItem_Validate(t *testing.T) {
	valid := CashItem{OriginalDueDate: MustParseDate("2025-03-01"), Priority: 3, Amount: decimal.NewFromInt(10)}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CashItem)
		field  string
	}{
		{"missing due date", func(c *CashItem) { c.OriginalDueDate = Date{} }, "originalDueDate"},
		{"bad renegotiated date", func(c *CashItem) { c.RenegotiatedDueDate = &Date{} }, "renegotiatedDueDate"},
		{"priority too high", func(c *CashItem) { c.Priority = 6 }, "priority"},
		{"negative priority", func(c *CashItem) { c.Priority = -1 }, "priority"},
		{"unknown status", func(c *CashItem) { c.PaymentStatus = "MAYBE" }, "paymentStatus"},
		{"note too long", func(c *CashItem) { c.NegotiationNote = strings.Repeat("é", MaxNoteLength+1) }, "negotiationNote"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := valid.Clone()
			tc.mutate(&item)
			err := item.Validate()
			require.ErrorIs(t, err, apperrors.ErrValidation)
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}

	atLimit := valid.Clone()
	atLimit.NegotiationNote = strings.Repeat("é", MaxNoteLength)
	assert.NoError(t, atLimit.Validate(), "the limit counts characters, not bytes")
}

func TestCashItem_LegacySnapshotDecode(t *testing.T) {
	raw := `[
		{"branch":" 01 ","documentNumber":"NF-1","counterpartyName":"ACME ","originalDueDate":"2025-03-01 00:00:00",
		 "renegotiatedDueDate":"NaT","priority":2.0,"amount":"150.25","paymentStatus":"PG"},
		{"documentNumber":"NF-2","counterpartyName":"Globex","originalDueDate":"2025-03-02",
		 "priority":"7","amount":10,"paymentStatus":"N_PG"},
		{"documentNumber":"NF-3","counterpartyName":"Initech","originalDueDate":"2025-03-03",
		 "priority":null,"amount":"1","paymentStatus":"whatever"}
	]`

	var items []CashItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	for i := range items {
		items[i].Normalize()
	}

	require.Len(t, items, 3)
	assert.Equal(t, "01", items[0].Branch)
	assert.Equal(t, "ACME", items[0].CounterpartyName)
	assert.Equal(t, "2025-03-01", items[0].OriginalDueDate.String())
	assert.Nil(t, items[0].RenegotiatedDueDate)
	assert.Equal(t, Priority(2), items[0].Priority)
	assert.Equal(t, StatusPaid, items[0].PaymentStatus)
	assert.Equal(t, "150.25", items[0].Amount.StringFixed(2))

	assert.False(t, items[1].Priority.IsSet(), "out of range priorities become unset")
	assert.Equal(t, StatusUnpaid, items[1].PaymentStatus)

	assert.False(t, items[2].Priority.IsSet())
	assert.Equal(t, StatusUnset, items[2].PaymentStatus)
}

func TestCashItem_JSONShape(t *testing.T) {
	item := CashItem{
		DocumentNumber:  "NF-1",
		OriginalDueDate: MustParseDate("2025-03-01"),
		Amount:          decimal.RequireFromString("10.5"),
	}

	out, err := json.Marshal(item)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, "2025-03-01", fields["originalDueDate"])
	assert.Nil(t, fields["renegotiatedDueDate"])
	assert.Nil(t, fields["priority"])
	assert.Nil(t, fields["paymentStatus"])
	assert.NotContains(t, fields, "installmentId")
	assert.NotContains(t, fields, "id")
}

func TestPriority_Label(t *testing.T) {
	assert.Equal(t, "Priority 1 - Urgent", Priority(1).Label())
	assert.Equal(t, "No Priority", PriorityUnset.Label())
	assert.Equal(t, 999, PriorityUnset.SortRank())
	assert.Equal(t, 5, MaxPriority.SortRank())
}

func TestParsePaymentStatus(t *testing.T) {
	for in, want := range map[string]PaymentStatus{"paid": StatusPaid, "PG": StatusPaid, "N_PG": StatusUnpaid, "": StatusUnset} {
		got, err := ParsePaymentStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePaymentStatus("later")
	assert.Error(t, err)
}
