package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BankBalanceSnapshot holds the current balance of every tracked bank account. It is replaced
// wholesale on every save; no history is kept.
type BankBalanceSnapshot struct {
	LastUpdated Timestamp                  `json:"lastUpdated"`
	Balances    map[string]decimal.Decimal `json:"balances"`
	Total       decimal.Decimal            `json:"total"`
}

// NewBankBalanceSnapshot builds a snapshot stamped at `at` with its total computed.
func NewBankBalanceSnapshot(balances map[string]decimal.Decimal, at time.Time) BankBalanceSnapshot {
	s := BankBalanceSnapshot{
		LastUpdated: NewTimestamp(at),
		Balances:    make(map[string]decimal.Decimal, len(balances)),
	}
	for account, amount := range balances {
		s.Balances[account] = amount
	}
	s.Recalculate()
	return s
}

// EmptyBankBalanceSnapshot returns a never-saved snapshot with every account at zero.
func EmptyBankBalanceSnapshot(accounts []string) BankBalanceSnapshot {
	s := BankBalanceSnapshot{Balances: make(map[string]decimal.Decimal, len(accounts))}
	for _, account := range accounts {
		s.Balances[account] = decimal.Zero
	}
	s.Total = decimal.Zero
	return s
}

// Recalculate recomputes Total from Balances.
func (s *BankBalanceSnapshot) Recalculate() {
	total := decimal.Zero
	for _, amount := range s.Balances {
		total = total.Add(amount)
	}
	s.Total = total
}

// Accounts returns the account names in lexical order.
func (s BankBalanceSnapshot) Accounts() []string {
	names := make([]string, 0, len(s.Balances))
	for name := range s.Balances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithAdjustment returns a copy of s with delta added to account, restamped at `at`.
func (s BankBalanceSnapshot) WithAdjustment(account string, delta decimal.Decimal, at time.Time) BankBalanceSnapshot {
	balances := make(map[string]decimal.Decimal, len(s.Balances)+1)
	for name, amount := range s.Balances {
		balances[name] = amount
	}
	balances[account] = balances[account].Add(delta)
	return NewBankBalanceSnapshot(balances, at)
}
