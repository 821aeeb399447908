package dto

import (
	"github.com/shopspring/decimal"
)

// SaveBankBalancesRequest replaces the stored bank balances wholesale.
type SaveBankBalancesRequest struct {
	Balances map[string]decimal.Decimal `json:"balances" binding:"required,min=1"`
}
