package cashflow

import (
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Allocate consumes totalBalance across priority tiers 1..5 and then the unprioritized tier.
// Each tier subtracts its sum from the balance it received and hands the result to the next
// tier, negative or not, so the trace shows total commitment rather than capped consumption.
func Allocate(totalBalance decimal.Decimal, items []domain.CashItem) domain.AllocationTrace {
	sums := make(map[domain.Priority]decimal.Decimal)
	counts := make(map[domain.Priority]int)
	for _, it := range items {
		sums[it.Priority] = sums[it.Priority].Add(it.Amount)
		counts[it.Priority]++
	}

	trace := domain.AllocationTrace{
		StartingBalance: totalBalance,
		Tiers:           make([]domain.TierAllocation, 0, int(domain.MaxPriority)+1),
		TotalCommitted:  decimal.Zero,
	}
	balance := totalBalance
	step := func(tier domain.Priority, unprioritized bool) {
		consumed := sums[tier]
		after := balance.Sub(consumed)
		trace.Tiers = append(trace.Tiers, domain.TierAllocation{
			Tier:           tier,
			Label:          tier.Label(),
			Unprioritized:  unprioritized,
			AmountConsumed: consumed,
			ItemCount:      counts[tier],
			BalanceBefore:  balance,
			BalanceAfter:   after,
			Sufficient:     !after.IsNegative(),
		})
		trace.TotalCommitted = trace.TotalCommitted.Add(consumed)
		balance = after
	}

	for tier := domain.MinPriority; tier <= domain.MaxPriority; tier++ {
		step(tier, false)
	}
	step(domain.PriorityUnset, true)

	trace.FinalBalance = balance
	return trace
}
