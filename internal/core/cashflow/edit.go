package cashflow

import (
	"fmt"
	"strings"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AdjustmentReason explains a change of amount. Any reason but AdjustmentNone is appended to the
// negotiation note together with the signed difference.
type AdjustmentReason string

const (
	AdjustmentNone     AdjustmentReason = "none"
	AdjustmentInterest AdjustmentReason = "interest"
	AdjustmentDiscount AdjustmentReason = "discount"
)

// Valid reports whether r is a known reason. Empty counts as AdjustmentNone.
func (r AdjustmentReason) Valid() bool {
	switch r {
	case "", AdjustmentNone, AdjustmentInterest, AdjustmentDiscount:
		return true
	}
	return false
}

// ItemEdit is a user edit of one record. Nil fields are left untouched.
type ItemEdit struct {
	RenegotiatedDueDate      *domain.Date
	ClearRenegotiatedDueDate bool
	// Priority set to PriorityUnset clears the priority.
	Priority         *domain.Priority
	PaymentStatus    *domain.PaymentStatus
	NegotiationNote  *string
	Amount           *decimal.Decimal
	AdjustmentReason AdjustmentReason
}

// StatusTransition describes how an edit moved a record relative to the Paid status.
type StatusTransition int

const (
	TransitionNone StatusTransition = iota
	TransitionPaid
	TransitionUnpaid
)

// BalanceDelta is the change to apply to the paying account: paying an item spends its amount,
// reverting a payment gives it back.
func (t StatusTransition) BalanceDelta(amount decimal.Decimal) decimal.Decimal {
	switch t {
	case TransitionPaid:
		return amount.Neg()
	case TransitionUnpaid:
		return amount
	default:
		return decimal.Zero
	}
}

// EditOutcome is the result of ApplyEdit.
type EditOutcome struct {
	Item       domain.CashItem
	Changed    []string
	Transition StatusTransition
}

func (e ItemEdit) validate() error {
	if e.RenegotiatedDueDate != nil && e.ClearRenegotiatedDueDate {
		return apperrors.NewValidationError("renegotiatedDueDate", "cannot set and clear in the same edit")
	}
	if e.RenegotiatedDueDate != nil && !e.RenegotiatedDueDate.Valid() {
		return apperrors.NewValidationError("renegotiatedDueDate", "must be a valid date")
	}
	if e.Priority != nil && !e.Priority.Valid() {
		return apperrors.NewValidationError("priority", "must be between %d and %d, got %d", domain.MinPriority, domain.MaxPriority, *e.Priority)
	}
	if e.PaymentStatus != nil && !e.PaymentStatus.Valid() {
		return apperrors.NewValidationError("paymentStatus", "unknown status %q", *e.PaymentStatus)
	}
	if !e.AdjustmentReason.Valid() {
		return apperrors.NewValidationError("adjustmentReason", "unknown reason %q", e.AdjustmentReason)
	}
	if e.AdjustmentReason != "" && e.AdjustmentReason != AdjustmentNone && e.Amount == nil {
		return apperrors.NewValidationError("amount", "required when an adjustment reason is given")
	}
	return nil
}

// ApplyEdit returns a copy of item with the edit applied. The edit is rejected before anything
// changes when a field is out of range or the resulting note exceeds MaxNoteLength.
func ApplyEdit(item domain.CashItem, edit ItemEdit) (EditOutcome, error) {
	if err := edit.validate(); err != nil {
		return EditOutcome{}, err
	}
	out := item.Clone()
	var changed []string

	switch {
	case edit.ClearRenegotiatedDueDate:
		if out.RenegotiatedDueDate != nil {
			out.RenegotiatedDueDate = nil
			changed = append(changed, domain.FieldRenegotiatedDueDate)
		}
	case edit.RenegotiatedDueDate != nil:
		if !out.IsRenegotiated() || !out.RenegotiatedDueDate.Equal(*edit.RenegotiatedDueDate) {
			out.RenegotiatedDueDate = edit.RenegotiatedDueDate.Ptr()
			changed = append(changed, domain.FieldRenegotiatedDueDate)
		}
	}

	if edit.Priority != nil && *edit.Priority != out.Priority {
		out.Priority = *edit.Priority
		changed = append(changed, domain.FieldPriority)
	}

	transition := TransitionNone
	if edit.PaymentStatus != nil && *edit.PaymentStatus != out.PaymentStatus {
		switch {
		case *edit.PaymentStatus == domain.StatusPaid:
			transition = TransitionPaid
		case out.PaymentStatus == domain.StatusPaid:
			transition = TransitionUnpaid
		}
		out.PaymentStatus = *edit.PaymentStatus
		changed = append(changed, "paymentStatus")
	}

	note := out.NegotiationNote
	if edit.NegotiationNote != nil {
		note = strings.TrimSpace(*edit.NegotiationNote)
	}

	if edit.Amount != nil {
		difference := edit.Amount.Sub(out.Amount)
		if !difference.IsZero() {
			out.Amount = *edit.Amount
			changed = append(changed, "amount")
		}
		if !difference.IsZero() && edit.AdjustmentReason != "" && edit.AdjustmentReason != AdjustmentNone {
			suffix := fmt.Sprintf("%s: %s", strings.ToUpper(string(edit.AdjustmentReason)), signed(difference))
			if note == "" {
				note = suffix
			} else {
				note = note + " | " + suffix
			}
			note = domain.TruncateNote(note)
		}
	}

	if note != out.NegotiationNote {
		if n := len([]rune(note)); n > domain.MaxNoteLength {
			return EditOutcome{}, apperrors.NewValidationError("negotiationNote", "must be at most %d characters, got %d", domain.MaxNoteLength, n)
		}
		out.NegotiationNote = note
		changed = append(changed, "negotiationNote")
	}

	return EditOutcome{Item: out, Changed: changed, Transition: transition}, nil
}

// ClearRenegotiation removes both the renegotiated due date and the priority of item.
func ClearRenegotiation(item domain.CashItem) domain.CashItem {
	out := item.Clone()
	out.RenegotiatedDueDate = nil
	out.Priority = domain.PriorityUnset
	return out
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
