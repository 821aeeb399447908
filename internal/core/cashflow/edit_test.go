package cashflow

import (
	"strings"
	"testing"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEdit_StatusTransitions(t *testing.T) {
	paid, unpaid := domain.StatusPaid, domain.StatusUnpaid
	item := payable("A", "ACME", "2025-03-01", "250.00", 1)
	item.PaymentStatus = domain.StatusUnpaid

	out, err := ApplyEdit(item, ItemEdit{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, TransitionPaid, out.Transition)
	assert.Equal(t, "-250.00", out.Transition.BalanceDelta(out.Item.Amount).StringFixed(2))

	back, err := ApplyEdit(out.Item, ItemEdit{PaymentStatus: &unpaid})
	require.NoError(t, err)
	assert.Equal(t, TransitionUnpaid, back.Transition)
	assert.Equal(t, "250.00", back.Transition.BalanceDelta(back.Item.Amount).StringFixed(2))

	same, err := ApplyEdit(back.Item, ItemEdit{PaymentStatus: &unpaid})
	require.NoError(t, err)
	assert.Equal(t, TransitionNone, same.Transition)
	assert.Empty(t, same.Changed)
	assert.True(t, same.Transition.BalanceDelta(same.Item.Amount).IsZero())
}

func TestApplyEdit_ValueAdjustmentAppendsReason(t *testing.T) {
	item := payable("A", "ACME", "2025-03-01", "100.00", 1)
	item.NegotiationNote = "late fee agreed"
	newAmount := amt("112.50")

	out, err := ApplyEdit(item, ItemEdit{Amount: &newAmount, AdjustmentReason: AdjustmentInterest})
	require.NoError(t, err)
	assert.Equal(t, "112.50", out.Item.Amount.StringFixed(2))
	assert.Equal(t, "late fee agreed | INTEREST: +12.50", out.Item.NegotiationNote)
	assert.ElementsMatch(t, []string{"amount", "negotiationNote"}, out.Changed)

	lower := amt("90")
	out, err = ApplyEdit(payable("B", "ACME", "2025-03-01", "100.00", 1), ItemEdit{Amount: &lower, AdjustmentReason: AdjustmentDiscount})
	require.NoError(t, err)
	assert.Equal(t, "DISCOUNT: -10.00", out.Item.NegotiationNote)
}

func TestApplyEdit_UnchangedAmountSkipsReason(t *testing.T) {
	item := payable("A", "ACME", "2025-03-01", "100.00", 1)
	item.NegotiationNote = "late fee agreed"
	same := amt("100.00")

	out, err := ApplyEdit(item, ItemEdit{Amount: &same, AdjustmentReason: AdjustmentInterest})

	require.NoError(t, err)
	assert.Equal(t, "late fee agreed", out.Item.NegotiationNote)
	assert.Empty(t, out.Changed)
}

func TestApplyEdit_AdjustmentNoteIsTruncated(t *testing.T) {
	item := payable("A", "ACME", "2025-03-01", "100.00", 1)
	item.NegotiationNote = strings.Repeat("n", domain.MaxNoteLength)
	newAmount := amt("101")

	out, err := ApplyEdit(item, ItemEdit{Amount: &newAmount, AdjustmentReason: AdjustmentInterest})

	require.NoError(t, err)
	assert.Len(t, []rune(out.Item.NegotiationNote), domain.MaxNoteLength)
}

func TestApplyEdit_Rejections(t *testing.T) {
	item := payable("A", "ACME", "2025-03-01", "100.00", 1)
	longNote := strings.Repeat("x", domain.MaxNoteLength+1)
	badStatus := domain.PaymentStatus("LOST")

	tests := []struct {
		name  string
		edit  ItemEdit
		field string
	}{
		{"priority out of range", ItemEdit{Priority: domain.Priority(6).Ptr()}, "priority"},
		{"note too long", ItemEdit{NegotiationNote: &longNote}, "negotiationNote"},
		{"unknown status", ItemEdit{PaymentStatus: &badStatus}, "paymentStatus"},
		{"invalid date", ItemEdit{RenegotiatedDueDate: &domain.Date{}}, "renegotiatedDueDate"},
		{"reason without amount", ItemEdit{AdjustmentReason: AdjustmentInterest}, "amount"},
		{"unknown reason", ItemEdit{AdjustmentReason: "gift"}, "adjustmentReason"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ApplyEdit(item, tc.edit)
			require.Error(t, err)
			var vErr *apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestApplyEdit_RenegotiationAndPriority(t *testing.T) {
	item := payable("A", "ACME", "2025-03-01", "100.00", 3)

	out, err := ApplyEdit(item, ItemEdit{RenegotiatedDueDate: dp("2025-04-15"), Priority: domain.PriorityUnset.Ptr()})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-15", out.Item.EffectiveDate().String())
	assert.False(t, out.Item.Priority.IsSet())
	assert.Equal(t, domain.Priority(3), item.Priority, "input is not mutated")

	cleared, err := ApplyEdit(out.Item, ItemEdit{ClearRenegotiatedDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Item.RenegotiatedDueDate)
	assert.Equal(t, []string{domain.FieldRenegotiatedDueDate}, cleared.Changed)
}

func TestClearRenegotiation(t *testing.T) {
	item := payable("A", "ACME", "2025-03-01", "100.00", 3)
	item.RenegotiatedDueDate = dp("2025-03-09")
	item.PaymentStatus = domain.StatusPaid

	out := ClearRenegotiation(item)

	assert.Nil(t, out.RenegotiatedDueDate)
	assert.False(t, out.Priority.IsSet())
	assert.Equal(t, domain.StatusPaid, out.PaymentStatus)
	assert.NotNil(t, item.RenegotiatedDueDate)
}
