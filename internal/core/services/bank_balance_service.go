package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/shopspring/decimal"
)

// bankBalanceService implements the BankBalanceSvcFacade interface
type bankBalanceService struct {
	BaseService
	repo     portsrepo.BankBalanceRepositoryFacade
	primary  string
	accounts []string
	now      func() time.Time

	// serializes read-modify-write adjustments
	mu sync.Mutex
}

// BankBalanceOption is a functional option for configuring the bank balance service
type BankBalanceOption func(*bankBalanceService)

// WithBalanceAccounts sets the account that absorbs payment status changes and the accounts
// reported before any balance was saved.
func WithBalanceAccounts(primary string, accounts []string) BankBalanceOption {
	return func(s *bankBalanceService) {
		s.primary = primary
		s.accounts = accounts
	}
}

// WithBalanceClock overrides the clock used to stamp saved balances.
func WithBalanceClock(now func() time.Time) BankBalanceOption {
	return func(s *bankBalanceService) {
		s.now = now
	}
}

// NewBankBalanceService creates a new bank balance service with the provided options
func NewBankBalanceService(repo portsrepo.BankBalanceRepositoryFacade, options ...BankBalanceOption) portssvc.BankBalanceSvcFacade {
	svc := &bankBalanceService{repo: repo, now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BankBalanceSvcFacade = (*bankBalanceService)(nil)

func (s *bankBalanceService) current(ctx context.Context) (domain.BankBalanceSnapshot, error) {
	snapshot, err := s.repo.LoadBankBalances(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.EmptyBankBalanceSnapshot(s.accounts), nil
	}
	if err != nil {
		return domain.BankBalanceSnapshot{}, err
	}
	return *snapshot, nil
}

func (s *bankBalanceService) GetBankBalances(ctx context.Context) (*domain.BankBalanceSnapshot, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load bank balances")
		return nil, fmt.Errorf("failed to load bank balances: %w", err)
	}
	return &snapshot, nil
}

func (s *bankBalanceService) SaveBankBalances(ctx context.Context, req dto.SaveBankBalancesRequest) (*domain.BankBalanceSnapshot, error) {
	if len(req.Balances) == 0 {
		return nil, apperrors.NewValidationError("balances", "at least one account is required")
	}
	balances := make(map[string]decimal.Decimal, len(req.Balances))
	for account, amount := range req.Balances {
		name := strings.TrimSpace(account)
		if name == "" {
			return nil, apperrors.NewValidationError("balances", "account names must not be blank")
		}
		balances[name] = amount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := domain.NewBankBalanceSnapshot(balances, s.now())
	if err := s.repo.SaveBankBalances(ctx, snapshot); err != nil {
		s.LogError(ctx, err, "Failed to save bank balances")
		return nil, fmt.Errorf("failed to save bank balances: %w", err)
	}

	s.LogInfo(ctx, "Bank balances saved",
		slog.Int("accounts", len(balances)),
		slog.String("total", snapshot.Total.StringFixed(2)))
	return &snapshot, nil
}

func (s *bankBalanceService) AdjustPrimaryBalance(ctx context.Context, delta decimal.Decimal) (*domain.BankBalanceSnapshot, error) {
	if s.primary == "" {
		return nil, apperrors.NewValidationError("account", "no primary balance account configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.current(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load bank balances for adjustment")
		return nil, fmt.Errorf("failed to load bank balances: %w", err)
	}
	if delta.IsZero() {
		return &snapshot, nil
	}

	adjusted := snapshot.WithAdjustment(s.primary, delta, s.now())
	if err := s.repo.SaveBankBalances(ctx, adjusted); err != nil {
		s.LogError(ctx, err, "Failed to save adjusted bank balances", slog.String("account", s.primary))
		return nil, fmt.Errorf("failed to save adjusted bank balances: %w", err)
	}

	s.LogInfo(ctx, "Primary bank balance adjusted",
		slog.String("account", s.primary),
		slog.String("delta", delta.StringFixed(2)),
		slog.String("balance", adjusted.Balances[s.primary].StringFixed(2)))
	return &adjusted, nil
}
