package services

import (
	"context"
	"io"

	"github.com/SscSPs/cash_flow_app/internal/core/cashflow"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/shopspring/decimal"
)

// ScheduleReaderSvc defines read-only views over the working set.
type ScheduleReaderSvc interface {
	// GetSchedule returns the ordered payables with global and per-priority running subtotals.
	GetSchedule(ctx context.Context, params dto.ScheduleParams) (*domain.Schedule, error)

	// GetSummary returns the dashboard metrics of the whole working set.
	GetSummary(ctx context.Context) (*domain.ScheduleSummary, error)

	// GetAllocation runs the priority waterfall. A nil balance uses the stored bank balance total.
	GetAllocation(ctx context.Context, balance *decimal.Decimal) (*domain.AllocationTrace, error)
}

// ScheduleImportSvc reconciles imports against the working set.
type ScheduleImportSvc interface {
	// Refresh reconciles imported against the working set, re-orders and persists the result.
	Refresh(ctx context.Context, imported []domain.CashItem) (*dto.RefreshResponse, error)

	// ImportSpreadsheet reads payables from an xlsx workbook and refreshes with them. An import
	// failure leaves the working set untouched.
	ImportSpreadsheet(ctx context.Context, r io.Reader, source string) (*dto.RefreshResponse, error)

	// AnalyzeChanges reports the override differences imported would apply without mutating
	// anything. When save is set the result replaces the stored change audit.
	AnalyzeChanges(ctx context.Context, imported []domain.CashItem, save bool) ([]domain.ChangeRecord, error)
}

// ScheduleWriterSvc defines user edits on the working set. Every edit is applied in memory first;
// a persistence failure is returned but the edit stays in memory until SaveSnapshot succeeds.
type ScheduleWriterSvc interface {
	UpdateItem(ctx context.Context, itemID string, req dto.UpdateItemRequest) (*domain.CashItem, error)
	ClearRenegotiation(ctx context.Context, itemID string) (*domain.CashItem, error)
	SplitItem(ctx context.Context, itemID string, req dto.SplitItemRequest) (*cashflow.SplitResult, error)

	// SaveSnapshot retries persistence of the in-memory working set and pending plans.
	SaveSnapshot(ctx context.Context) error
}

// ScheduleSvcFacade combines all schedule service interfaces
type ScheduleSvcFacade interface {
	ScheduleReaderSvc
	ScheduleImportSvc
	ScheduleWriterSvc
}
