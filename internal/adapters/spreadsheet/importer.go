// Package spreadsheet reads payables from the xlsx workbook exported by the ERP.
package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the sheet preferred when a workbook has several.
const DefaultSheetName = "Analítico"

type column int

const (
	colBranch column = iota
	colDocumentNumber
	colInstallmentTag
	colPayee
	colCounterparty
	colOriginalDueDate
	colRenegotiatedDueDate
	colPriority
	colAmount
	colPaymentStatus
	colNegotiationNote
	colHistory
)

// headers maps normalized header text to a column. ERP export headers and the snapshot field
// names are both accepted.
var headers = map[string]column{
	"filial":               colBranch,
	"branch":               colBranch,
	"no. titulo":           colDocumentNumber,
	"no. título":           colDocumentNumber,
	"documentnumber":       colDocumentNumber,
	"parcela":              colInstallmentTag,
	"installmenttag":       colInstallmentTag,
	"fornecedor":           colPayee,
	"payee":                colPayee,
	"razão social":         colCounterparty,
	"razao social":         colCounterparty,
	"counterpartyname":     colCounterparty,
	"vencto real":          colOriginalDueDate,
	"originalduedate":      colOriginalDueDate,
	"data renegociacao":    colRenegotiatedDueDate,
	"data renegociação":    colRenegotiatedDueDate,
	"renegotiatedduedate":  colRenegotiatedDueDate,
	"prioridade":           colPriority,
	"priority":             colPriority,
	"valor":                colAmount,
	"amount":               colAmount,
	"situacao":             colPaymentStatus,
	"situação":             colPaymentStatus,
	"paymentstatus":        colPaymentStatus,
	"descricao_negociacao": colNegotiationNote,
	"negotiationnote":      colNegotiationNote,
	"historico":            colHistory,
	"histórico":            colHistory,
	"historytext":          colHistory,
}

// Importer reads payables from an xlsx workbook.
type Importer struct {
	sheetName string
}

// NewImporter creates an Importer preferring sheetName, or DefaultSheetName when empty.
func NewImporter(sheetName string) *Importer {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = DefaultSheetName
	}
	return &Importer{sheetName: sheetName}
}

var _ portsrepo.PayablesImporter = (*Importer)(nil)

// ImportPayables reads the preferred sheet, or the first sheet when the workbook lacks it. The
// first row holds the headers. Rows without a valid due date are skipped.
func (i *Importer) ImportPayables(ctx context.Context, r io.Reader, source string) ([]domain.CashItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &apperrors.ImportError{Source: source, Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	sheet := i.pickSheet(f.GetSheetList())
	if sheet == "" {
		return nil, &apperrors.ImportError{Source: source, Err: fmt.Errorf("workbook has no sheets: %w", apperrors.ErrNoData)}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &apperrors.ImportError{Source: source, Err: fmt.Errorf("failed to read sheet %q: %w", sheet, err)}
	}
	if len(rows) < 2 {
		return nil, &apperrors.ImportError{Source: source, Err: fmt.Errorf("sheet %q has no data rows: %w", sheet, apperrors.ErrNoData)}
	}

	layout := mapHeaders(rows[0])
	if _, ok := layout[colOriginalDueDate]; !ok {
		return nil, &apperrors.ImportError{Source: source, Err: fmt.Errorf("sheet %q has no due date column", sheet)}
	}

	items := make([]domain.CashItem, 0, len(rows)-1)
	for n, row := range rows[1:] {
		item, ok, err := parseRow(layout, row)
		if err != nil {
			return nil, &apperrors.ImportError{Source: source, Err: fmt.Errorf("sheet %q row %d: %w", sheet, n+2, err)}
		}
		if ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, &apperrors.ImportError{Source: source, Err: fmt.Errorf("sheet %q has no rows with a valid due date: %w", sheet, apperrors.ErrNoData)}
	}
	return items, nil
}

func (i *Importer) pickSheet(sheets []string) string {
	for _, s := range sheets {
		if s == i.sheetName {
			return s
		}
	}
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

func mapHeaders(row []string) map[column]int {
	layout := make(map[column]int, len(row))
	for idx, h := range row {
		if col, ok := headers[normalizeHeader(h)]; ok {
			if _, seen := layout[col]; !seen {
				layout[col] = idx
			}
		}
	}
	return layout
}

// parseRow returns false for rows to skip.
func parseRow(layout map[column]int, row []string) (domain.CashItem, bool, error) {
	cell := func(c column) string {
		idx, ok := layout[c]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	due, ok := parseCellDate(cell(colOriginalDueDate))
	if !ok {
		return domain.CashItem{}, false, nil
	}

	amount, err := parseAmount(cell(colAmount))
	if err != nil {
		return domain.CashItem{}, false, err
	}

	item := domain.CashItem{
		Branch:           cell(colBranch),
		DocumentNumber:   cell(colDocumentNumber),
		InstallmentTag:   cell(colInstallmentTag),
		Payee:            cell(colPayee),
		CounterpartyName: cell(colCounterparty),
		OriginalDueDate:  due,
		Amount:           amount,
		Priority:         parsePriority(cell(colPriority)),
		NegotiationNote:  cell(colNegotiationNote),
		HistoryText:      cell(colHistory),
	}
	if d, ok := parseCellDate(cell(colRenegotiatedDueDate)); ok {
		item.RenegotiatedDueDate = &d
	}
	if status, err := domain.ParsePaymentStatus(cell(colPaymentStatus)); err == nil {
		item.PaymentStatus = status
	}
	item.Normalize()
	return item, true, nil
}

// parseCellDate accepts Excel serial dates and the textual layouts understood by domain.ParseDate.
func parseCellDate(s string) (domain.Date, bool) {
	if s == "" {
		return domain.Date{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial < 1 {
			return domain.Date{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return domain.Date{}, false
		}
		return domain.DateOf(t), true
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, false
	}
	return d, true
}

// parseAmount accepts plain decimals and Brazilian formatted text ("1.234,56"). Blank is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d, nil
	}
	if strings.Contains(s, ",") {
		br := strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		if d, err := decimal.NewFromString(br); err == nil {
			return d, nil
		}
	}
	return decimal.Zero, apperrors.NewValidationError("amount", "invalid amount %q", s)
}

func parsePriority(s string) domain.Priority {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return domain.PriorityUnset
	}
	p := domain.Priority(int(f))
	if !p.Valid() {
		return domain.PriorityUnset
	}
	return p
}
