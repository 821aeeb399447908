package repositories

import "context"

// Names of the documents that make up one snapshot.
const (
	DocumentCashItems        = "cash_items"
	DocumentBankBalances     = "bank_balances"
	DocumentInstallmentPlans = "installment_plans"
	DocumentChangeAudit      = "change_audit"
)

// DocumentStore persists named JSON documents. Every Save replaces the whole document.
type DocumentStore interface {
	// Load returns the stored bytes of the document, or an error wrapping apperrors.ErrNotFound
	// when it was never saved.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the document. A failed save leaves the previous version readable.
	Save(ctx context.Context, name string, data []byte) error
}
