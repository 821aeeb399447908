package repositories

import (
	"context"
	"io"

	"github.com/SscSPs/cash_flow_app/internal/core/domain"
)

// PayablesImporter reads payables from an external workbook. It returns an error wrapping
// apperrors.ErrNoData when the workbook holds no usable rows, and an *apperrors.ImportError for
// unreadable input. Every returned item has a valid OriginalDueDate.
type PayablesImporter interface {
	ImportPayables(ctx context.Context, r io.Reader, source string) ([]domain.CashItem, error)
}
