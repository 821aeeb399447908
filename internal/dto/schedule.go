package dto

import (
	"github.com/SscSPs/cash_flow_app/internal/core/cashflow"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ScheduleParams narrows the schedule view. Bound from the query string.
type ScheduleParams struct {
	Priority        *int `form:"priority" binding:"omitempty,min=1,max=5"`
	PrioritizedOnly bool `form:"prioritizedOnly"`
}

// ToScheduleFilter converts the query parameters to the engine filter.
func (p ScheduleParams) ToScheduleFilter() cashflow.ScheduleFilter {
	filter := cashflow.ScheduleFilter{PrioritizedOnly: p.PrioritizedOnly}
	if p.Priority != nil {
		filter.Priority = domain.Priority(*p.Priority)
	}
	return filter
}

// AllocationParams carries an optional what-if balance. When Balance is empty the stored bank
// balance total is used.
type AllocationParams struct {
	Balance string `form:"balance" binding:"omitempty,numeric"`
}

// BalanceOverride parses Balance. It returns nil when no override was given.
func (p AllocationParams) BalanceOverride() (*decimal.Decimal, error) {
	if p.Balance == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(p.Balance)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// RefreshResponse reports the outcome of reconciling an import against the stored working set.
type RefreshResponse struct {
	Stats cashflow.ReconcileStats `json:"stats"`
	// Degraded is set when the stored snapshot could not be read and the import was taken as a
	// first import.
	Degraded       bool            `json:"degraded"`
	DegradedReason string          `json:"degradedReason,omitempty"`
	RecordCount    int             `json:"recordCount"`
	Total          decimal.Decimal `json:"total"`
}

// AnalyzeChangesResponse lists the override differences an import would apply.
type AnalyzeChangesResponse struct {
	Changes []domain.ChangeRecord `json:"changes"`
	Count   int                   `json:"count"`
	Saved   bool                  `json:"saved"`
}

// AnalyzeChangesParams controls whether the analysis replaces the stored change audit.
type AnalyzeChangesParams struct {
	Save bool `form:"save"`
}
