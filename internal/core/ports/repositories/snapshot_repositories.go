package repositories

import (
	"context"

	"github.com/SscSPs/cash_flow_app/internal/core/domain"
)

// CashItemReader reads the stored working set.
type CashItemReader interface {
	// LoadCashItems returns the stored records, normalized. It returns apperrors.ErrNotFound
	// when no snapshot was ever saved.
	LoadCashItems(ctx context.Context) ([]domain.CashItem, error)
}

// CashItemWriter replaces the stored working set.
type CashItemWriter interface {
	SaveCashItems(ctx context.Context, items []domain.CashItem) error
}

// CashItemRepositoryFacade combines all cash item repository interfaces
type CashItemRepositoryFacade interface {
	CashItemReader
	CashItemWriter
}

// BankBalanceRepositoryFacade stores the single current bank balance snapshot.
type BankBalanceRepositoryFacade interface {
	// LoadBankBalances returns apperrors.ErrNotFound when balances were never saved.
	LoadBankBalances(ctx context.Context) (*domain.BankBalanceSnapshot, error)
	SaveBankBalances(ctx context.Context, snapshot domain.BankBalanceSnapshot) error
}

// InstallmentPlanReader reads the installment audit log.
type InstallmentPlanReader interface {
	// ListInstallmentPlans returns every plan in append order; an empty log is not an error.
	ListInstallmentPlans(ctx context.Context) ([]domain.InstallmentPlan, error)
}

// InstallmentPlanWriter appends to and administers the installment audit log.
type InstallmentPlanWriter interface {
	AppendInstallmentPlan(ctx context.Context, plan domain.InstallmentPlan) error

	// DeleteInstallmentPlan removes one entry. It returns apperrors.ErrNotFound for unknown ids.
	DeleteInstallmentPlan(ctx context.Context, planID string) error
}

// InstallmentPlanRepositoryFacade combines all installment plan repository interfaces
type InstallmentPlanRepositoryFacade interface {
	InstallmentPlanReader
	InstallmentPlanWriter
}

// ChangeAuditRepositoryFacade stores the latest change analysis.
type ChangeAuditRepositoryFacade interface {
	// LoadChangeRecords returns an empty list when no analysis was saved.
	LoadChangeRecords(ctx context.Context) ([]domain.ChangeRecord, error)
	// SaveChangeRecords overwrites the previous analysis.
	SaveChangeRecords(ctx context.Context, records []domain.ChangeRecord) error
}
