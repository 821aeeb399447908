package services

import (
	"context"

	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/shopspring/decimal"
)

// BankBalanceReaderSvc reads the current bank balances.
type BankBalanceReaderSvc interface {
	// GetBankBalances returns the stored snapshot, or zero balances for the configured accounts
	// when none was saved yet.
	GetBankBalances(ctx context.Context) (*domain.BankBalanceSnapshot, error)
}

// BankBalanceWriterSvc replaces or adjusts the bank balances.
type BankBalanceWriterSvc interface {
	SaveBankBalances(ctx context.Context, req dto.SaveBankBalancesRequest) (*domain.BankBalanceSnapshot, error)

	// AdjustPrimaryBalance adds delta to the primary account, as done when a payable changes
	// payment status.
	AdjustPrimaryBalance(ctx context.Context, delta decimal.Decimal) (*domain.BankBalanceSnapshot, error)
}

// BankBalanceSvcFacade combines all bank balance service interfaces
type BankBalanceSvcFacade interface {
	BankBalanceReaderSvc
	BankBalanceWriterSvc
}
