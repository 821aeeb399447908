package dto

import (
	"fmt"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/cashflow"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InstallmentRequest is one explicitly dated installment.
type InstallmentRequest struct {
	DueDate string          `json:"dueDate" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
}

// EqualInstallmentsRequest asks for Count monthly installments of equal value starting at
// FirstDueDate. Total defaults to the amount of the item being split.
type EqualInstallmentsRequest struct {
	Count        int              `json:"count" binding:"required,min=1,max=120"`
	FirstDueDate string           `json:"firstDueDate" binding:"required"`
	Total        *decimal.Decimal `json:"total"`
}

// SplitItemRequest splits one payable into installments. Exactly one of Installments and
// EqualInstallments must be given.
type SplitItemRequest struct {
	Installments      []InstallmentRequest      `json:"installments" binding:"omitempty,dive"`
	EqualInstallments *EqualInstallmentsRequest `json:"equalInstallments"`
	Note              string                    `json:"note" binding:"max=200"`
	NewTotal          *decimal.Decimal          `json:"newTotal"`
	PaymentStatus     *string                   `json:"paymentStatus" binding:"omitempty,oneof=PAID UNPAID"`
	Priority          *int                      `json:"priority" binding:"omitempty,min=0,max=5"`
}

// ToSplitRequest converts the request to an engine split request. sourceAmount is the amount of
// the item being split and backs the defaults of the equal installment planner.
func (r SplitItemRequest) ToSplitRequest(sourceAmount decimal.Decimal) (cashflow.SplitRequest, error) {
	req := cashflow.SplitRequest{Note: r.Note, NewTotal: r.NewTotal}

	switch {
	case r.EqualInstallments != nil && len(r.Installments) > 0:
		return cashflow.SplitRequest{}, apperrors.NewValidationError("installments", "give either installments or equalInstallments, not both")
	case r.EqualInstallments != nil:
		eq := r.EqualInstallments
		first, err := domain.ParseDate(eq.FirstDueDate)
		if err != nil {
			return cashflow.SplitRequest{}, apperrors.NewValidationError("equalInstallments.firstDueDate", "%v", err)
		}
		total := sourceAmount
		if eq.Total != nil {
			total = *eq.Total
		}
		specs, err := cashflow.EqualInstallments(total, eq.Count, first)
		if err != nil {
			return cashflow.SplitRequest{}, err
		}
		req.Installments = specs
		if req.NewTotal == nil {
			req.NewTotal = &total
		}
	default:
		req.Installments = make([]cashflow.InstallmentSpec, 0, len(r.Installments))
		for i, inst := range r.Installments {
			due, err := domain.ParseDate(inst.DueDate)
			if err != nil {
				return cashflow.SplitRequest{}, apperrors.NewValidationError(fmt.Sprintf("installments[%d].dueDate", i+1), "%v", err)
			}
			req.Installments = append(req.Installments, cashflow.InstallmentSpec{DueDate: due, Amount: inst.Amount})
		}
	}

	if r.Priority != nil {
		req.Priority = domain.Priority(*r.Priority).Ptr()
	}
	if r.PaymentStatus != nil {
		status, err := parseStatus(*r.PaymentStatus)
		if err != nil {
			return cashflow.SplitRequest{}, err
		}
		req.PaymentStatus = &status
	}
	return req, nil
}

// SplitItemResponse reports the rewritten source, the appended installments and the plan that
// was written to the installment log.
type SplitItemResponse struct {
	UpdatedSource domain.CashItem        `json:"updatedSource"`
	NewItems      []domain.CashItem      `json:"newItems"`
	Plan          domain.InstallmentPlan `json:"plan"`
	Warnings      []string               `json:"warnings"`
}

// ToSplitItemResponse converts an engine split result to the response DTO.
func ToSplitItemResponse(res *cashflow.SplitResult) SplitItemResponse {
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return SplitItemResponse{
		UpdatedSource: res.UpdatedSource,
		NewItems:      res.NewItems,
		Plan:          res.Plan,
		Warnings:      warnings,
	}
}

// ListInstallmentPlansParams filters and pages the installment log. From and To bound the
// creation date (inclusive, YYYY-MM-DD).
type ListInstallmentPlansParams struct {
	From         string  `form:"from"`
	To           string  `form:"to"`
	Counterparty string  `form:"counterparty"`
	Limit        int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken    *string `form:"nextToken"`
}

// ListInstallmentPlansResponse is one page of installment plans, newest first.
type ListInstallmentPlansResponse struct {
	Plans     []domain.InstallmentPlan `json:"plans"`
	NextToken *string                  `json:"nextToken,omitempty"`
}
