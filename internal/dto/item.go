package dto

import (
	"strings"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/cashflow"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateItemRequest defines the user overrides that can be applied to one payable.
// Absent fields are left untouched. A priority of 0 and an empty payment status clear the value.
type UpdateItemRequest struct {
	RenegotiatedDueDate      *string          `json:"renegotiatedDueDate"`
	ClearRenegotiatedDueDate bool             `json:"clearRenegotiatedDueDate"`
	Priority                 *int             `json:"priority" binding:"omitempty,min=0,max=5"`
	PaymentStatus            *string          `json:"paymentStatus" binding:"omitempty,oneof=PAID UNPAID"`
	NegotiationNote          *string          `json:"negotiationNote" binding:"omitempty,max=200"`
	Amount                   *decimal.Decimal `json:"amount"`
	AdjustmentReason         string           `json:"adjustmentReason" binding:"omitempty,oneof=none interest discount"`
}

// ToItemEdit converts the request to an engine edit.
func (r UpdateItemRequest) ToItemEdit() (cashflow.ItemEdit, error) {
	edit := cashflow.ItemEdit{
		ClearRenegotiatedDueDate: r.ClearRenegotiatedDueDate,
		NegotiationNote:          r.NegotiationNote,
		Amount:                   r.Amount,
		AdjustmentReason:         cashflow.AdjustmentReason(r.AdjustmentReason),
	}
	if r.RenegotiatedDueDate != nil {
		d, err := domain.ParseDate(*r.RenegotiatedDueDate)
		if err != nil {
			return cashflow.ItemEdit{}, apperrors.NewValidationError(domain.FieldRenegotiatedDueDate, "%v", err)
		}
		edit.RenegotiatedDueDate = &d
	}
	if r.Priority != nil {
		edit.Priority = domain.Priority(*r.Priority).Ptr()
	}
	if r.PaymentStatus != nil {
		status, err := parseStatus(*r.PaymentStatus)
		if err != nil {
			return cashflow.ItemEdit{}, err
		}
		edit.PaymentStatus = &status
	}
	return edit, nil
}

func parseStatus(s string) (domain.PaymentStatus, error) {
	status, err := domain.ParsePaymentStatus(strings.TrimSpace(s))
	if err != nil {
		return domain.StatusUnset, apperrors.NewValidationError("paymentStatus", "%v", err)
	}
	return status, nil
}

// ItemResponse wraps an updated payable.
type ItemResponse struct {
	Item domain.CashItem `json:"item"`
}
