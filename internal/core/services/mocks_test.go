package services_test

import (
	"context"
	"io"

	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CashItemRepository ---
type MockCashItemRepository struct {
	mock.Mock
}

func (m *MockCashItemRepository) LoadCashItems(ctx context.Context) ([]domain.CashItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashItem), args.Error(1)
}

func (m *MockCashItemRepository) SaveCashItems(ctx context.Context, items []domain.CashItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// --- Mock InstallmentPlanRepository ---
type MockInstallmentPlanRepository struct {
	mock.Mock
}

func (m *MockInstallmentPlanRepository) ListInstallmentPlans(ctx context.Context) ([]domain.InstallmentPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstallmentPlan), args.Error(1)
}

func (m *MockInstallmentPlanRepository) AppendInstallmentPlan(ctx context.Context, plan domain.InstallmentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockInstallmentPlanRepository) DeleteInstallmentPlan(ctx context.Context, planID string) error {
	args := m.Called(ctx, planID)
	return args.Error(0)
}

// --- Mock ChangeAuditRepository ---
type MockChangeAuditRepository struct {
	mock.Mock
}

func (m *MockChangeAuditRepository) LoadChangeRecords(ctx context.Context) ([]domain.ChangeRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChangeRecord), args.Error(1)
}

func (m *MockChangeAuditRepository) SaveChangeRecords(ctx context.Context, records []domain.ChangeRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// --- Mock BankBalanceRepository ---
type MockBankBalanceRepository struct {
	mock.Mock
}

func (m *MockBankBalanceRepository) LoadBankBalances(ctx context.Context) (*domain.BankBalanceSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankBalanceSnapshot), args.Error(1)
}

func (m *MockBankBalanceRepository) SaveBankBalances(ctx context.Context, snapshot domain.BankBalanceSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// --- Mock BankBalanceService ---
type MockBankBalanceService struct {
	mock.Mock
}

func (m *MockBankBalanceService) GetBankBalances(ctx context.Context) (*domain.BankBalanceSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankBalanceSnapshot), args.Error(1)
}

func (m *MockBankBalanceService) SaveBankBalances(ctx context.Context, req dto.SaveBankBalancesRequest) (*domain.BankBalanceSnapshot, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankBalanceSnapshot), args.Error(1)
}

func (m *MockBankBalanceService) AdjustPrimaryBalance(ctx context.Context, delta decimal.Decimal) (*domain.BankBalanceSnapshot, error) {
	args := m.Called(ctx, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankBalanceSnapshot), args.Error(1)
}

// --- Mock PayablesImporter ---
type MockPayablesImporter struct {
	mock.Mock
}

func (m *MockPayablesImporter) ImportPayables(ctx context.Context, r io.Reader, source string) ([]domain.CashItem, error) {
	args := m.Called(ctx, r, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashItem), args.Error(1)
}

// Ensure mocks implement the interfaces
var (
	_ portsrepo.CashItemRepositoryFacade        = (*MockCashItemRepository)(nil)
	_ portsrepo.InstallmentPlanRepositoryFacade = (*MockInstallmentPlanRepository)(nil)
	_ portsrepo.ChangeAuditRepositoryFacade     = (*MockChangeAuditRepository)(nil)
	_ portsrepo.BankBalanceRepositoryFacade     = (*MockBankBalanceRepository)(nil)
	_ portsrepo.PayablesImporter                = (*MockPayablesImporter)(nil)
	_ portssvc.BankBalanceSvcFacade             = (*MockBankBalanceService)(nil)
)

func payable(id, counterparty, due, amount string, priority int) domain.CashItem {
	return domain.CashItem{
		ID:               id,
		Branch:           "01",
		DocumentNumber:   "NF-" + id,
		CounterpartyName: counterparty,
		OriginalDueDate:  domain.MustParseDate(due),
		Amount:           decimal.RequireFromString(amount),
		Priority:         domain.Priority(priority),
	}
}
