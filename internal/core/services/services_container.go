package services

import (
	"fmt"

	"github.com/SscSPs/cash_flow_app/internal/core/cashflow"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, importer portsrepo.PayablesImporter) (*portssvc.ServiceContainer, error) {
	strategy, err := cashflow.ParseKeyStrategy(cfg.ReconcileKeyStrategy)
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile key strategy: %w", err)
	}

	container := &portssvc.ServiceContainer{}

	// Balances first, the schedule adjusts them on payment status changes
	container.BankBalance = NewBankBalanceService(
		repos.BankBalanceRepo,
		WithBalanceAccounts(cfg.PrimaryBalanceAccount, cfg.BalanceAccounts),
	)

	container.Schedule = NewScheduleService(
		repos,
		WithKeyStrategy(strategy),
		WithBankBalances(container.BankBalance),
		WithPayablesImporter(importer),
	)

	container.InstallmentPlan = NewInstallmentPlanService(repos.InstallmentPlanRepo)

	return container, nil
}
