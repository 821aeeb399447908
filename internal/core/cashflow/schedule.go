package cashflow

import (
	"slices"

	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// compareRenegotiated orders renegotiated due dates ascending with unset dates last.
func compareRenegotiated(a, b domain.CashItem) int {
	ar, br := a.IsRenegotiated(), b.IsRenegotiated()
	switch {
	case ar && br:
		return a.RenegotiatedDueDate.Compare(*b.RenegotiatedDueDate)
	case ar:
		return -1
	case br:
		return 1
	default:
		return 0
	}
}

func compareWithinGroup(a, b domain.CashItem) int {
	if c := compareRenegotiated(a, b); c != 0 {
		return c
	}
	return a.EffectiveDate().Compare(b.EffectiveDate())
}

func compareScheduled(a, b domain.CashItem) int {
	if ra, rb := a.Priority.SortRank(), b.Priority.SortRank(); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	return compareWithinGroup(a, b)
}

// Order returns a copy of items sorted by priority (unset last), then renegotiated due date
// (unset last), then effective date. Equal records keep their relative order. RunningSubtotal
// holds the prefix sum of Amount over the result.
func Order(items []domain.CashItem) []domain.CashItem {
	out := cloneAll(items)
	slices.SortStableFunc(out, compareScheduled)
	ApplyRunningSubtotals(out)
	return out
}

// OrderWithinGroup returns a copy of items sorted by renegotiated due date (unset last) and
// then effective date, ignoring priority.
func OrderWithinGroup(items []domain.CashItem) []domain.CashItem {
	out := cloneAll(items)
	slices.SortStableFunc(out, compareWithinGroup)
	return out
}

// ApplyRunningSubtotals sets RunningSubtotal to the prefix sum of Amount in slice order.
func ApplyRunningSubtotals(items []domain.CashItem) {
	sum := decimal.Zero
	for i := range items {
		sum = sum.Add(items[i].Amount)
		items[i].RunningSubtotal = sum
	}
}

// GroupByPriority buckets items by priority (1..5, then unset), orders each bucket with
// OrderWithinGroup and computes a cumulative sum local to the bucket. Empty buckets are omitted.
func GroupByPriority(items []domain.CashItem) []domain.PriorityGroup {
	buckets := make(map[domain.Priority][]domain.CashItem)
	for _, it := range items {
		p := it.Priority
		if !p.Valid() {
			p = domain.PriorityUnset
		}
		buckets[p] = append(buckets[p], it)
	}

	tiers := []domain.Priority{1, 2, 3, 4, 5, domain.PriorityUnset}
	groups := make([]domain.PriorityGroup, 0, len(buckets))
	for _, tier := range tiers {
		bucket, ok := buckets[tier]
		if !ok {
			continue
		}
		ordered := OrderWithinGroup(bucket)
		group := domain.PriorityGroup{
			Priority: tier,
			Label:    tier.Label(),
			Items:    make([]domain.GroupedItem, len(ordered)),
		}
		sum := decimal.Zero
		for i, it := range ordered {
			sum = sum.Add(it.Amount)
			group.Items[i] = domain.GroupedItem{CashItem: it, GroupSubtotal: sum}
		}
		group.Total = sum
		groups = append(groups, group)
	}
	return groups
}

// ScheduleFilter narrows the schedule view.
type ScheduleFilter struct {
	PrioritizedOnly bool
	Priority        domain.Priority // unset means every priority
}

func (f ScheduleFilter) match(it domain.CashItem) bool {
	if f.PrioritizedOnly && !it.Priority.IsSet() {
		return false
	}
	if f.Priority.IsSet() && it.Priority != f.Priority {
		return false
	}
	return true
}

// BuildSchedule orders the filtered items and derives both subtotal views from the same base.
func BuildSchedule(items []domain.CashItem, filter ScheduleFilter) domain.Schedule {
	selected := make([]domain.CashItem, 0, len(items))
	for _, it := range items {
		if filter.match(it) {
			selected = append(selected, it)
		}
	}
	ordered := Order(selected)
	total := decimal.Zero
	if n := len(ordered); n > 0 {
		total = ordered[n-1].RunningSubtotal
	}
	return domain.Schedule{
		Items:  ordered,
		Groups: GroupByPriority(ordered),
		Total:  total,
	}
}

// Summarize computes the dashboard metrics of items.
func Summarize(items []domain.CashItem) domain.ScheduleSummary {
	summary := domain.ScheduleSummary{
		RecordCount: len(items),
		Total:       decimal.Zero,
		Average:     decimal.Zero,
		ByPriority:  []domain.PrioritySummary{},
	}
	for _, it := range items {
		summary.Total = summary.Total.Add(it.Amount)
		if it.Priority.IsSet() {
			summary.PrioritizedCount++
		}
	}
	if len(items) > 0 {
		summary.Average = summary.Total.Div(decimal.NewFromInt(int64(len(items)))).Round(2)
	}

	for _, group := range GroupByPriority(items) {
		counterparties := make(map[string]struct{}, len(group.Items))
		for _, it := range group.Items {
			counterparties[it.CounterpartyName] = struct{}{}
		}
		count := len(group.Items)
		summary.ByPriority = append(summary.ByPriority, domain.PrioritySummary{
			Priority:               group.Priority,
			Label:                  group.Label,
			Count:                  count,
			Total:                  group.Total,
			Average:                group.Total.Div(decimal.NewFromInt(int64(count))).Round(2),
			DistinctCounterparties: len(counterparties),
		})
	}
	return summary
}
