package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/SscSPs/cash_flow_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const maxPlanPageSize = 100

// installmentPlanService implements the InstallmentPlanSvcFacade interface
type installmentPlanService struct {
	BaseService
	repo portsrepo.InstallmentPlanRepositoryFacade
}

// NewInstallmentPlanService creates a service over the installment audit log.
func NewInstallmentPlanService(repo portsrepo.InstallmentPlanRepositoryFacade) portssvc.InstallmentPlanSvcFacade {
	return &installmentPlanService{repo: repo}
}

var _ portssvc.InstallmentPlanSvcFacade = (*installmentPlanService)(nil)

type planFilter struct {
	from, to     domain.Date
	counterparty string
}

func parsePlanFilter(params dto.ListInstallmentPlansParams) (planFilter, error) {
	var f planFilter
	if params.From != "" {
		d, err := domain.ParseDate(params.From)
		if err != nil {
			return f, apperrors.NewValidationError("from", "%v", err)
		}
		f.from = d
	}
	if params.To != "" {
		d, err := domain.ParseDate(params.To)
		if err != nil {
			return f, apperrors.NewValidationError("to", "%v", err)
		}
		f.to = d
	}
	if f.from.Valid() && f.to.Valid() && f.from.After(f.to) {
		return f, apperrors.NewValidationError("from", "must not be after to")
	}
	f.counterparty = strings.ToLower(strings.TrimSpace(params.Counterparty))
	return f, nil
}

func (f planFilter) match(p domain.InstallmentPlan) bool {
	created := domain.DateOf(p.CreatedAt.Time)
	if f.from.Valid() && created.Before(f.from) {
		return false
	}
	if f.to.Valid() && created.After(f.to) {
		return false
	}
	if f.counterparty != "" && !strings.Contains(strings.ToLower(p.Source.CounterpartyName), f.counterparty) {
		return false
	}
	return true
}

// newestFirst orders plans by creation time, then plan id, both descending.
func newestFirst(a, b domain.InstallmentPlan) int {
	if c := b.CreatedAt.Compare(a.CreatedAt.Time); c != 0 {
		return c
	}
	return cmp.Compare(b.PlanID, a.PlanID)
}

func (s *installmentPlanService) ListInstallmentPlans(ctx context.Context, params dto.ListInstallmentPlansParams) (*dto.ListInstallmentPlansResponse, error) {
	filter, err := parsePlanFilter(params)
	if err != nil {
		return nil, err
	}

	var cursorAt time.Time
	var cursorID string
	if params.NextToken != nil && *params.NextToken != "" {
		cursorAt, cursorID, err = pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationError("nextToken", "%v", err)
		}
	}

	plans, err := s.repo.ListInstallmentPlans(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list installment plans")
		return nil, fmt.Errorf("failed to list installment plans: %w", err)
	}

	selected := make([]domain.InstallmentPlan, 0, len(plans))
	for _, p := range plans {
		if filter.match(p) {
			selected = append(selected, p)
		}
	}
	slices.SortStableFunc(selected, newestFirst)

	if cursorID != "" {
		cursor := domain.InstallmentPlan{PlanID: cursorID, CreatedAt: domain.NewTimestamp(cursorAt)}
		start := len(selected)
		for i, p := range selected {
			if newestFirst(cursor, p) < 0 {
				start = i
				break
			}
		}
		selected = selected[start:]
	}

	limit := pagination.NormalizeLimit(params.Limit, maxPlanPageSize)
	resp := &dto.ListInstallmentPlansResponse{Plans: selected}
	if len(selected) > limit {
		resp.Plans = selected[:limit]
		last := resp.Plans[limit-1]
		token := pagination.EncodeToken(last.CreatedAt.Time, last.PlanID)
		resp.NextToken = &token
	}

	s.LogDebug(ctx, "Installment plans listed", slog.Int("count", len(resp.Plans)))
	return resp, nil
}

func (s *installmentPlanService) GetInstallmentPlanStats(ctx context.Context) (*domain.InstallmentPlanStats, error) {
	plans, err := s.repo.ListInstallmentPlans(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load installment plans for stats")
		return nil, fmt.Errorf("failed to load installment plans: %w", err)
	}

	stats := &domain.InstallmentPlanStats{
		TotalOriginalAmount: decimal.Zero,
		TotalNewAmount:      decimal.Zero,
	}
	for _, p := range plans {
		stats.PlanCount++
		stats.InstallmentCount += p.InstallmentCount
		stats.TotalOriginalAmount = stats.TotalOriginalAmount.Add(p.OriginalAmount)
		stats.TotalNewAmount = stats.TotalNewAmount.Add(p.NewTotalAmount)
	}
	stats.TotalAmountDifference = stats.TotalNewAmount.Sub(stats.TotalOriginalAmount)
	return stats, nil
}

func (s *installmentPlanService) DeleteInstallmentPlan(ctx context.Context, planID string) error {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return apperrors.NewValidationError("planId", "is required")
	}
	if err := s.repo.DeleteInstallmentPlan(ctx, planID); err != nil {
		s.LogError(ctx, err, "Failed to delete installment plan", slog.String("plan_id", planID))
		return fmt.Errorf("failed to delete installment plan %s: %w", planID, err)
	}
	s.LogInfo(ctx, "Installment plan deleted", slog.String("plan_id", planID))
	return nil
}
