package cashflow

import (
	"time"

	"github.com/SscSPs/cash_flow_app/internal/core/domain"
)

// ReconcileStats summarizes one reconciliation pass.
type ReconcileStats struct {
	Imported int `json:"imported"`
	Stored   int `json:"stored"`
	Matched  int `json:"matched"`
	Updated  int `json:"updated"`
	// Collisions counts matched stored records that share their key with another stored record.
	// Every record in such a group receives the same override.
	Collisions int `json:"collisions"`
	// Dropped counts records removed because their original due date is not a valid date.
	Dropped int `json:"dropped"`
	// FirstImport is set when there was no stored working set and the import was taken as is.
	FirstImport bool `json:"firstImport"`
}

// ReconcileResult is the outcome of Reconcile.
type ReconcileResult struct {
	Merged []domain.CashItem
	Stats  ReconcileStats
}

// Reconciler merges freshly imported records into the stored working set.
type Reconciler struct {
	strategy KeyStrategy
}

// NewReconciler returns a Reconciler matching records with the given strategy.
func NewReconciler(strategy KeyStrategy) *Reconciler {
	if strategy == "" {
		strategy = KeyNatural
	}
	return &Reconciler{strategy: strategy}
}

// Strategy returns the key strategy in use.
func (r *Reconciler) Strategy() KeyStrategy { return r.strategy }

// keyIndex locates records by the configured key. When several records share a key the last one
// wins.
type keyIndex struct {
	strategy  KeyStrategy
	byID      map[string]int
	byNatural map[string]int
}

func newKeyIndex(strategy KeyStrategy, items []domain.CashItem) *keyIndex {
	idx := &keyIndex{
		strategy:  strategy,
		byID:      make(map[string]int),
		byNatural: make(map[string]int, len(items)),
	}
	for i, it := range items {
		idx.byNatural[it.NaturalKey()] = i
		if it.ID != "" {
			idx.byID[it.ID] = i
		}
	}
	return idx
}

func (x *keyIndex) lookup(it domain.CashItem) (int, bool) {
	if x.strategy == KeySurrogate && it.ID != "" {
		i, ok := x.byID[it.ID]
		return i, ok
	}
	i, ok := x.byNatural[it.NaturalKey()]
	return i, ok
}

func (r *Reconciler) keyOf(it domain.CashItem) string {
	if r.strategy == KeySurrogate && it.ID != "" {
		return "id:" + it.ID
	}
	return "nk:" + it.NaturalKey()
}

// Reconcile refreshes the renegotiated due date and priority of stored records from the
// matching imported records. Imported values that are unset never overwrite. Records are never
// added or removed by the merge; afterwards records without a valid original due date are
// dropped. With an empty stored set the import becomes the working set.
func (r *Reconciler) Reconcile(imported, stored []domain.CashItem) ReconcileResult {
	stats := ReconcileStats{Imported: len(imported), Stored: len(stored)}

	if len(stored) == 0 {
		merged := cloneAll(imported)
		merged, stats.Dropped = DropInvalidDueDates(merged)
		stats.FirstImport = true
		return ReconcileResult{Merged: merged, Stats: stats}
	}

	idx := newKeyIndex(r.strategy, imported)
	keyCount := make(map[string]int, len(stored))
	for _, it := range stored {
		keyCount[r.keyOf(it)]++
	}

	merged := make([]domain.CashItem, len(stored))
	for i, it := range stored {
		rec := it.Clone()
		j, ok := idx.lookup(rec)
		if !ok {
			merged[i] = rec
			continue
		}
		stats.Matched++
		if keyCount[r.keyOf(rec)] > 1 {
			stats.Collisions++
		}
		if applyImportedOverrides(&rec, imported[j]) {
			stats.Updated++
		}
		merged[i] = rec
	}

	merged, stats.Dropped = DropInvalidDueDates(merged)
	return ReconcileResult{Merged: merged, Stats: stats}
}

// applyImportedOverrides copies the renegotiated due date and priority from src into dst when
// src carries a value that differs. It reports whether dst changed.
func applyImportedOverrides(dst *domain.CashItem, src domain.CashItem) bool {
	changed := false
	if src.IsRenegotiated() && (!dst.IsRenegotiated() || !dst.RenegotiatedDueDate.Equal(*src.RenegotiatedDueDate)) {
		dst.RenegotiatedDueDate = src.RenegotiatedDueDate.Ptr()
		changed = true
	}
	if src.Priority.IsSet() && src.Priority != dst.Priority {
		dst.Priority = src.Priority
		changed = true
	}
	return changed
}

// Diff reports, without mutating anything, every matched key whose renegotiated due date or
// priority differs between the imported and stored sets. Unset and set values are different.
func (r *Reconciler) Diff(imported, stored []domain.CashItem, analyzedAt time.Time) []domain.ChangeRecord {
	idx := newKeyIndex(r.strategy, stored)
	at := domain.NewTimestamp(analyzedAt)

	var records []domain.ChangeRecord
	for _, imp := range imported {
		j, ok := idx.lookup(imp)
		if !ok {
			continue
		}
		st := stored[j]

		var changes []domain.FieldChange
		if before, after := renegotiatedString(st), renegotiatedString(imp); before != after {
			changes = append(changes, domain.FieldChange{Field: domain.FieldRenegotiatedDueDate, Before: before, After: after})
		}
		if before, after := st.Priority.String(), imp.Priority.String(); before != after {
			changes = append(changes, domain.FieldChange{Field: domain.FieldPriority, Before: before, After: after})
		}
		if len(changes) == 0 {
			continue
		}

		rec := domain.ChangeRecord{
			OriginalDueDate:  imp.OriginalDueDate,
			CounterpartyName: imp.CounterpartyName,
			Branch:           imp.Branch,
			DocumentNumber:   imp.DocumentNumber,
			InstallmentTag:   imp.InstallmentTag,
			Payee:            imp.Payee,
			Amount:           imp.Amount,
			Priority:         imp.Priority,
			Changes:          changes,
			AnalyzedAt:       at,
		}
		if imp.IsRenegotiated() {
			rec.RenegotiatedDueDate = imp.RenegotiatedDueDate.Ptr()
		}
		records = append(records, rec)
	}
	return records
}

func renegotiatedString(it domain.CashItem) string {
	if !it.IsRenegotiated() {
		return ""
	}
	return it.RenegotiatedDueDate.String()
}

// DropInvalidDueDates removes records whose original due date is not a valid date and returns
// the kept records with the number dropped.
func DropInvalidDueDates(items []domain.CashItem) ([]domain.CashItem, int) {
	kept := make([]domain.CashItem, 0, len(items))
	for _, it := range items {
		if it.OriginalDueDate.Valid() {
			kept = append(kept, it)
		}
	}
	return kept, len(items) - len(kept)
}

func cloneAll(items []domain.CashItem) []domain.CashItem {
	out := make([]domain.CashItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
