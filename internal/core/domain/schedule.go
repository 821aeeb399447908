package domain

import "github.com/shopspring/decimal"

// GroupedItem is a scheduled item inside its priority bucket, carrying the bucket-local
// cumulative sum. GroupSubtotal is independent from CashItem.RunningSubtotal, which is global.
type GroupedItem struct {
	CashItem
	GroupSubtotal decimal.Decimal `json:"groupSubtotal"`
}

// PriorityGroup is one bucket of the priority-grouped view.
type PriorityGroup struct {
	Priority Priority        `json:"priority"`
	Label    string          `json:"label"`
	Items    []GroupedItem   `json:"items"`
	Total    decimal.Decimal `json:"total"`
}

// Schedule is the ordered cash-flow view: the globally ordered list with running subtotals plus
// the per-priority grouping derived from the same base.
type Schedule struct {
	Items  []CashItem      `json:"items"`
	Groups []PriorityGroup `json:"groups"`
	Total  decimal.Decimal `json:"total"`
}

// PrioritySummary holds aggregate metrics of one priority bucket.
type PrioritySummary struct {
	Priority               Priority        `json:"priority"`
	Label                  string          `json:"label"`
	Count                  int             `json:"count"`
	Total                  decimal.Decimal `json:"total"`
	Average                decimal.Decimal `json:"average"`
	DistinctCounterparties int             `json:"distinctCounterparties"`
}

// ScheduleSummary holds the dashboard metrics of the working set.
type ScheduleSummary struct {
	RecordCount      int               `json:"recordCount"`
	Total            decimal.Decimal   `json:"total"`
	Average          decimal.Decimal   `json:"average"`
	PrioritizedCount int               `json:"prioritizedCount"`
	ByPriority       []PrioritySummary `json:"byPriority"`
}
