package domain

import "github.com/shopspring/decimal"

// TierAllocation is one step of a waterfall allocation.
type TierAllocation struct {
	Tier           Priority        `json:"tier"` // null for the unprioritized tier
	Label          string          `json:"label"`
	Unprioritized  bool            `json:"unprioritized"`
	AmountConsumed decimal.Decimal `json:"amountConsumed"`
	ItemCount      int             `json:"itemCount"`
	BalanceBefore  decimal.Decimal `json:"balanceBefore"`
	BalanceAfter   decimal.Decimal `json:"balanceAfter"`
	Sufficient     bool            `json:"sufficient"`
}

// AllocationTrace is the ephemeral result of consuming a balance across priority tiers. It is
// never persisted.
type AllocationTrace struct {
	StartingBalance decimal.Decimal  `json:"startingBalance"`
	Tiers           []TierAllocation `json:"tiers"`
	FinalBalance    decimal.Decimal  `json:"finalBalance"`
	TotalCommitted  decimal.Decimal  `json:"totalCommitted"`
}

// FirstShortfall returns the first tier whose balance went negative, if any.
func (t AllocationTrace) FirstShortfall() (TierAllocation, bool) {
	for _, tier := range t.Tiers {
		if !tier.Sufficient {
			return tier, true
		}
	}
	return TierAllocation{}, false
}
