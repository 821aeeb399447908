package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/cashflow"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// scheduleService is the editing session over one snapshot. It owns the working set: every
// read and mutation runs under mu, and the stored snapshot is only read once, lazily.
type scheduleService struct {
	BaseService
	itemRepo  portsrepo.CashItemRepositoryFacade
	planRepo  portsrepo.InstallmentPlanWriter
	auditRepo portsrepo.ChangeAuditRepositoryFacade
	balances  portssvc.BankBalanceSvcFacade
	importer  portsrepo.PayablesImporter

	strategy  cashflow.KeyStrategy
	now       func() time.Time
	newPlanID func() string

	reconciler *cashflow.Reconciler
	splitter   *cashflow.Splitter

	mu      sync.Mutex
	loaded  bool
	working []domain.CashItem
	// plans whose append failed; flushed after the working set on the next save
	pendingPlans []domain.InstallmentPlan
}

// ScheduleOption is a functional option for configuring the schedule service
type ScheduleOption func(*scheduleService)

// WithKeyStrategy selects how imported records are matched to stored ones.
func WithKeyStrategy(strategy cashflow.KeyStrategy) ScheduleOption {
	return func(s *scheduleService) {
		s.strategy = strategy
	}
}

// WithBankBalances wires the service that absorbs payment status changes and backs the
// default allocation balance.
func WithBankBalances(svc portssvc.BankBalanceSvcFacade) ScheduleOption {
	return func(s *scheduleService) {
		s.balances = svc
	}
}

// WithPayablesImporter wires the spreadsheet reader used by ImportSpreadsheet.
func WithPayablesImporter(importer portsrepo.PayablesImporter) ScheduleOption {
	return func(s *scheduleService) {
		s.importer = importer
	}
}

// WithScheduleClock overrides the clock used for ids, plans and change records.
func WithScheduleClock(now func() time.Time) ScheduleOption {
	return func(s *scheduleService) {
		s.now = now
	}
}

// WithPlanIDGenerator overrides how installment plan ids are generated.
func WithPlanIDGenerator(newPlanID func() string) ScheduleOption {
	return func(s *scheduleService) {
		s.newPlanID = newPlanID
	}
}

// NewScheduleService creates the schedule session over the repositories of one snapshot.
func NewScheduleService(repos portsrepo.RepositoryProvider, options ...ScheduleOption) portssvc.ScheduleSvcFacade {
	svc := &scheduleService{
		itemRepo:  repos.CashItemRepo,
		planRepo:  repos.InstallmentPlanRepo,
		auditRepo: repos.ChangeAuditRepo,
		strategy:  cashflow.KeyNatural,
		now:       time.Now,
		newPlanID: uuid.NewString,
	}
	for _, option := range options {
		option(svc)
	}
	svc.reconciler = cashflow.NewReconciler(svc.strategy)
	svc.splitter = cashflow.NewSplitter(cashflow.NewIDGenerator(svc.now), svc.now, svc.newPlanID)
	return svc
}

var _ portssvc.ScheduleSvcFacade = (*scheduleService)(nil)

// prepareImport copies, normalizes and identifies imported records.
func prepareImport(imported []domain.CashItem) []domain.CashItem {
	out := make([]domain.CashItem, len(imported))
	for i, it := range imported {
		out[i] = it.Clone()
		out[i].Normalize()
	}
	cashflow.AssignSurrogateIDs(out)
	return out
}

func scheduleTotal(items []domain.CashItem) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	return items[len(items)-1].RunningSubtotal
}

// ensureLoaded reads the stored working set on first use. s.mu must be held.
func (s *scheduleService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	items, err := s.itemRepo.LoadCashItems(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogInfo(ctx, "No stored snapshot, starting with an empty working set")
		items = []domain.CashItem{}
	} else if err != nil {
		s.LogError(ctx, err, "Failed to load stored snapshot")
		return fmt.Errorf("failed to load working set: %w", err)
	}
	s.working = cashflow.Order(items)
	s.loaded = true
	return nil
}

// persistLocked writes the working set, then any pending plans. s.mu must be held. On failure
// the in-memory state is kept so that SaveSnapshot can retry.
func (s *scheduleService) persistLocked(ctx context.Context) error {
	if err := s.itemRepo.SaveCashItems(ctx, s.working); err != nil {
		s.LogError(ctx, err, "Failed to persist working set, changes kept in memory",
			slog.Int("records", len(s.working)))
		return fmt.Errorf("changes kept in memory: %w", err)
	}
	for len(s.pendingPlans) > 0 {
		plan := s.pendingPlans[0]
		if err := s.planRepo.AppendInstallmentPlan(ctx, plan); err != nil {
			s.LogError(ctx, err, "Failed to append installment plan, kept for retry",
				slog.String("plan_id", plan.PlanID))
			return fmt.Errorf("installment plan %s kept in memory: %w", plan.PlanID, err)
		}
		s.pendingPlans = s.pendingPlans[1:]
	}
	return nil
}

// indexLocked returns the position of itemID in the working set. s.mu must be held.
func (s *scheduleService) indexLocked(itemID string) (int, error) {
	for i := range s.working {
		if s.working[i].ID == itemID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("item %s: %w", itemID, apperrors.ErrNotFound)
}

// itemLocked returns a copy of the item with itemID. s.mu must be held.
func (s *scheduleService) itemLocked(itemID string) (*domain.CashItem, error) {
	idx, err := s.indexLocked(itemID)
	if err != nil {
		return nil, err
	}
	item := s.working[idx].Clone()
	return &item, nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, params dto.ScheduleParams) (*domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	schedule := cashflow.BuildSchedule(s.working, params.ToScheduleFilter())
	return &schedule, nil
}

func (s *scheduleService) GetSummary(ctx context.Context) (*domain.ScheduleSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	summary := cashflow.Summarize(s.working)
	return &summary, nil
}

func (s *scheduleService) GetAllocation(ctx context.Context, balance *decimal.Decimal) (*domain.AllocationTrace, error) {
	total := decimal.Zero
	switch {
	case balance != nil:
		total = *balance
	case s.balances != nil:
		snapshot, err := s.balances.GetBankBalances(ctx)
		if err != nil {
			return nil, err
		}
		total = snapshot.Total
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	trace := cashflow.Allocate(total, s.working)
	if tier, short := trace.FirstShortfall(); short {
		s.LogDebug(ctx, "Balance insufficient for allocation tier",
			slog.String("tier", tier.Label),
			slog.String("balance_after", tier.BalanceAfter.StringFixed(2)))
	}
	return &trace, nil
}

func (s *scheduleService) Refresh(ctx context.Context, imported []domain.CashItem) (*dto.RefreshResponse, error) {
	if len(imported) == 0 {
		return nil, fmt.Errorf("import carried no records: %w", apperrors.ErrNoData)
	}
	prepared := prepareImport(imported)

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := &dto.RefreshResponse{}
	stored := s.working
	if !s.loaded {
		items, err := s.itemRepo.LoadCashItems(ctx)
		switch {
		case err == nil:
			stored = items
		case errors.Is(err, apperrors.ErrNotFound):
			stored = nil
		default:
			resp.Degraded = true
			resp.DegradedReason = err.Error()
			s.LogWarn(ctx, "Stored snapshot unreadable, treating import as first import",
				slog.String("error", err.Error()))
			stored = nil
		}
	}

	result := s.reconciler.Reconcile(prepared, stored)
	s.working = cashflow.Order(result.Merged)
	s.loaded = true

	resp.Stats = result.Stats
	resp.RecordCount = len(s.working)
	resp.Total = scheduleTotal(s.working)

	s.LogInfo(ctx, "Import reconciled",
		slog.String("strategy", string(s.reconciler.Strategy())),
		slog.Int("imported", result.Stats.Imported),
		slog.Int("matched", result.Stats.Matched),
		slog.Int("updated", result.Stats.Updated),
		slog.Int("dropped", result.Stats.Dropped),
		slog.Bool("first_import", result.Stats.FirstImport))
	if result.Stats.Collisions > 0 {
		s.LogWarn(ctx, "Records share a reconciliation key", slog.Int("collisions", result.Stats.Collisions))
	}

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *scheduleService) ImportSpreadsheet(ctx context.Context, r io.Reader, source string) (*dto.RefreshResponse, error) {
	if s.importer == nil {
		return nil, &apperrors.ImportError{Source: source, Err: errors.New("no spreadsheet importer configured")}
	}
	items, err := s.importer.ImportPayables(ctx, r, source)
	if err != nil {
		s.LogWarn(ctx, "Spreadsheet import failed, stored snapshot stays authoritative",
			slog.String("source", source), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Spreadsheet read", slog.String("source", source), slog.Int("rows", len(items)))
	return s.Refresh(ctx, items)
}

func (s *scheduleService) AnalyzeChanges(ctx context.Context, imported []domain.CashItem, save bool) ([]domain.ChangeRecord, error) {
	if len(imported) == 0 {
		return nil, fmt.Errorf("import carried no records: %w", apperrors.ErrNoData)
	}
	prepared := prepareImport(imported)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	records := s.reconciler.Diff(prepared, s.working, s.now())
	if records == nil {
		records = []domain.ChangeRecord{}
	}

	if save {
		if err := s.auditRepo.SaveChangeRecords(ctx, records); err != nil {
			s.LogError(ctx, err, "Failed to save change analysis")
			return nil, fmt.Errorf("failed to save change analysis: %w", err)
		}
	}
	s.LogInfo(ctx, "Change analysis completed", slog.Int("changes", len(records)), slog.Bool("saved", save))
	return records, nil
}

func (s *scheduleService) UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest) (*domain.CashItem, error) {
	edit, err := req.ToItemEdit()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	idx, err := s.indexLocked(itemID)
	if err != nil {
		return nil, err
	}

	outcome, err := cashflow.ApplyEdit(s.working[idx], edit)
	if err != nil {
		s.LogWarn(ctx, "Item edit rejected", slog.String("item_id", itemID), slog.String("error", err.Error()))
		return nil, err
	}
	if len(outcome.Changed) == 0 {
		return s.itemLocked(itemID)
	}

	s.working[idx] = outcome.Item
	s.working = cashflow.Order(s.working)
	s.LogInfo(ctx, "Item updated", slog.String("item_id", itemID), slog.Any("fields", outcome.Changed))

	persistErr := s.persistLocked(ctx)

	// The edit is applied in memory either way, so the balance follows it.
	var balanceErr error
	if outcome.Transition != cashflow.TransitionNone && s.balances != nil {
		delta := outcome.Transition.BalanceDelta(outcome.Item.Amount)
		if _, err := s.balances.AdjustPrimaryBalance(ctx, delta); err != nil {
			s.LogError(ctx, err, "Failed to adjust bank balance for status change", slog.String("item_id", itemID))
			balanceErr = err
		}
	}
	if err := errors.Join(persistErr, balanceErr); err != nil {
		return nil, err
	}
	return s.itemLocked(itemID)
}

func (s *scheduleService) ClearRenegotiation(ctx context.Context, itemID string) (*domain.CashItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	idx, err := s.indexLocked(itemID)
	if err != nil {
		return nil, err
	}

	current := s.working[idx]
	if current.RenegotiatedDueDate == nil && !current.Priority.IsSet() {
		return s.itemLocked(itemID)
	}
	s.working[idx] = cashflow.ClearRenegotiation(current)
	s.working = cashflow.Order(s.working)
	s.LogInfo(ctx, "Renegotiation cleared", slog.String("item_id", itemID))

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return s.itemLocked(itemID)
}

func (s *scheduleService) SplitItem(ctx context.Context, itemID string, req dto.SplitItemRequest) (*cashflow.SplitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	idx, err := s.indexLocked(itemID)
	if err != nil {
		return nil, err
	}
	source := s.working[idx]

	splitReq, err := req.ToSplitRequest(source.Amount)
	if err != nil {
		return nil, err
	}
	result, err := s.splitter.Split(source, splitReq, cashflow.TakenIDs(s.working))
	if err != nil {
		s.LogWarn(ctx, "Installment split rejected", slog.String("item_id", itemID), slog.String("error", err.Error()))
		return nil, err
	}
	for _, w := range result.Warnings {
		s.LogWarn(ctx, "Installment split warning", slog.String("item_id", itemID), slog.String("warning", w))
	}

	s.working[idx] = result.UpdatedSource
	s.working = append(s.working, result.NewItems...)
	s.working = cashflow.Order(s.working)
	s.pendingPlans = append(s.pendingPlans, result.Plan)

	s.LogInfo(ctx, "Item split into installments",
		slog.String("item_id", itemID),
		slog.String("plan_id", result.Plan.PlanID),
		slog.String("original_obligation_id", result.Plan.OriginalObligationID),
		slog.Int("installments", result.Plan.InstallmentCount))

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *scheduleService) SaveSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.LogDebug(ctx, "Nothing loaded, skipping snapshot save")
		return nil
	}
	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	s.LogInfo(ctx, "Snapshot saved", slog.Int("records", len(s.working)))
	return nil
}
