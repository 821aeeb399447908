package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/cashflow"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Repository stores one named snapshot (working set, balances, installment log and change
// audit) as JSON documents in a DocumentStore.
type Repository struct {
	store portsrepo.DocumentStore
	name  string

	// guards read-modify-write cycles on the installment log
	mu sync.Mutex
}

// NewRepository returns a repository for the snapshot called name.
func NewRepository(store portsrepo.DocumentStore, name string) *Repository {
	if name == "" {
		name = "default"
	}
	return &Repository{store: store, name: name}
}

// NewRepositoryProvider exposes one snapshot repository through every repository port.
func NewRepositoryProvider(store portsrepo.DocumentStore, name string) portsrepo.RepositoryProvider {
	repo := NewRepository(store, name)
	return portsrepo.RepositoryProvider{
		CashItemRepo:        repo,
		BankBalanceRepo:     repo,
		InstallmentPlanRepo: repo,
		ChangeAuditRepo:     repo,
	}
}

// Ensure implementation matches interface
var (
	_ portsrepo.CashItemRepositoryFacade        = (*Repository)(nil)
	_ portsrepo.BankBalanceRepositoryFacade     = (*Repository)(nil)
	_ portsrepo.InstallmentPlanRepositoryFacade = (*Repository)(nil)
	_ portsrepo.ChangeAuditRepositoryFacade     = (*Repository)(nil)
)

func (r *Repository) documentName(doc string) string {
	return path.Join(r.name, doc)
}

func (r *Repository) load(ctx context.Context, doc string, v any) error {
	name := r.documentName(doc)
	data, err := r.store.Load(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return &apperrors.PersistenceError{Target: name, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &apperrors.PersistenceError{Target: name, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func (r *Repository) save(ctx context.Context, doc string, v any) error {
	name := r.documentName(doc)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &apperrors.PersistenceError{Target: name, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := r.store.Save(ctx, name, data); err != nil {
		return &apperrors.PersistenceError{Target: name, Err: err}
	}
	return nil
}

// LoadCashItems reads the working set and runs the load-time normalization: optional fields
// are default-initialized, legacy values are coerced and missing ids are assigned.
func (r *Repository) LoadCashItems(ctx context.Context) ([]domain.CashItem, error) {
	var items []domain.CashItem
	if err := r.load(ctx, portsrepo.DocumentCashItems, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Normalize()
	}
	cashflow.AssignSurrogateIDs(items)
	if items == nil {
		items = []domain.CashItem{}
	}
	return items, nil
}

// SaveCashItems overwrites the working set.
func (r *Repository) SaveCashItems(ctx context.Context, items []domain.CashItem) error {
	if items == nil {
		items = []domain.CashItem{}
	}
	return r.save(ctx, portsrepo.DocumentCashItems, items)
}

// LoadBankBalances reads the current balances and recomputes their total.
func (r *Repository) LoadBankBalances(ctx context.Context) (*domain.BankBalanceSnapshot, error) {
	var snapshot domain.BankBalanceSnapshot
	if err := r.load(ctx, portsrepo.DocumentBankBalances, &snapshot); err != nil {
		return nil, err
	}
	if snapshot.Balances == nil {
		snapshot.Balances = map[string]decimal.Decimal{}
	}
	snapshot.Recalculate()
	return &snapshot, nil
}

// SaveBankBalances overwrites the balances document.
func (r *Repository) SaveBankBalances(ctx context.Context, snapshot domain.BankBalanceSnapshot) error {
	snapshot.Recalculate()
	return r.save(ctx, portsrepo.DocumentBankBalances, snapshot)
}

func (r *Repository) listPlans(ctx context.Context) ([]domain.InstallmentPlan, error) {
	var plans []domain.InstallmentPlan
	if err := r.load(ctx, portsrepo.DocumentInstallmentPlans, &plans); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.InstallmentPlan{}, nil
		}
		return nil, err
	}
	if plans == nil {
		plans = []domain.InstallmentPlan{}
	}
	return plans, nil
}

// ListInstallmentPlans returns the installment log in append order.
func (r *Repository) ListInstallmentPlans(ctx context.Context) ([]domain.InstallmentPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listPlans(ctx)
}

// AppendInstallmentPlan adds plan at the end of the installment log.
func (r *Repository) AppendInstallmentPlan(ctx context.Context, plan domain.InstallmentPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plans, err := r.listPlans(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, portsrepo.DocumentInstallmentPlans, append(plans, plan))
}

// DeleteInstallmentPlan removes the entry with planID from the log.
func (r *Repository) DeleteInstallmentPlan(ctx context.Context, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plans, err := r.listPlans(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.InstallmentPlan, 0, len(plans))
	for _, p := range plans {
		if p.PlanID != planID {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(plans) {
		return fmt.Errorf("installment plan %s: %w", planID, apperrors.ErrNotFound)
	}
	return r.save(ctx, portsrepo.DocumentInstallmentPlans, kept)
}

// LoadChangeRecords returns the last saved change analysis.
func (r *Repository) LoadChangeRecords(ctx context.Context) ([]domain.ChangeRecord, error) {
	var records []domain.ChangeRecord
	if err := r.load(ctx, portsrepo.DocumentChangeAudit, &records); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.ChangeRecord{}, nil
		}
		return nil, err
	}
	if records == nil {
		records = []domain.ChangeRecord{}
	}
	return records, nil
}

// SaveChangeRecords overwrites the change audit document.
func (r *Repository) SaveChangeRecords(ctx context.Context, records []domain.ChangeRecord) error {
	if records == nil {
		records = []domain.ChangeRecord{}
	}
	return r.save(ctx, portsrepo.DocumentChangeAudit, records)
}
