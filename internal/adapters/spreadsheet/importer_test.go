package spreadsheet

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var erpHeader = []any{"Filial", "No. Titulo", "Parcela", "Fornecedor", "Razão Social", "Vencto Real", "Data Renegociacao", "Prioridade", "Valor", "Situacao", "Historico"}

type sheet struct {
	name string
	rows [][]any
}

func workbook(t *testing.T, sheets ...sheet) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(s.name, cell, &values))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportPayables_PrefersAnaliticoSheet(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	buf := workbook(t,
		sheet{name: "Resumo", rows: [][]any{{"Total"}, {123}}},
		sheet{name: "Analítico", rows: [][]any{
			erpHeader,
			{"01", "NF-1", "1/2", "F001", "ACME Ltda", due, "", 2, 150.25, "N_PG", "Compra de insumos"},
			{"02", "NF-2", "", "F002", "Globex", "09/03/2025", "2025-04-10", "", "1.234,56", "PG", ""},
			{"03", "NF-3", "", "F003", "No date", "", "", 1, 10, "", ""},
		}},
	)

	items, err := NewImporter("").ImportPayables(context.Background(), buf, "payables.xlsx")
	require.NoError(t, err)
	require.Len(t, items, 2, "rows without a due date are skipped")

	first := items[0]
	assert.Equal(t, "01", first.Branch)
	assert.Equal(t, "NF-1", first.DocumentNumber)
	assert.Equal(t, "1/2", first.InstallmentTag)
	assert.Equal(t, "F001", first.Payee)
	assert.Equal(t, "ACME Ltda", first.CounterpartyName)
	assert.Equal(t, "2025-03-01", first.OriginalDueDate.String())
	assert.Nil(t, first.RenegotiatedDueDate)
	assert.Equal(t, domain.Priority(2), first.Priority)
	assert.Equal(t, "150.25", first.Amount.StringFixed(2))
	assert.Equal(t, domain.StatusUnpaid, first.PaymentStatus)
	assert.Equal(t, "Compra de insumos", first.HistoryText)

	second := items[1]
	assert.Equal(t, "2025-03-09", second.OriginalDueDate.String())
	require.NotNil(t, second.RenegotiatedDueDate)
	assert.Equal(t, "2025-04-10", second.RenegotiatedDueDate.String())
	assert.False(t, second.Priority.IsSet())
	assert.Equal(t, "1234.56", second.Amount.StringFixed(2))
	assert.Equal(t, domain.StatusPaid, second.PaymentStatus)
}

func TestImportPayables_FallsBackToFirstSheet(t *testing.T) {
	buf := workbook(t, sheet{name: "Export", rows: [][]any{
		{"documentNumber", "counterpartyName", "originalDueDate", "amount", "priority"},
		{"NF-9", "Initech", "2025-05-02", "99.90", "7"},
	}})

	items, err := NewImporter("Analítico").ImportPayables(context.Background(), buf, "export.xlsx")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Initech", items[0].CounterpartyName)
	assert.False(t, items[0].Priority.IsSet(), "out of range priorities are dropped")
}

func TestImportPayables_NoData(t *testing.T) {
	tests := map[string]*bytes.Buffer{
		"header only": workbook(t, sheet{name: "Analítico", rows: [][]any{erpHeader}}),
		"no valid dates": workbook(t, sheet{name: "Analítico", rows: [][]any{
			erpHeader,
			{"01", "NF-1", "", "", "ACME", "soon", "", "", 10, "", ""},
		}}),
	}
	for name, buf := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewImporter("").ImportPayables(context.Background(), buf, "empty.xlsx")
			assert.ErrorIs(t, err, apperrors.ErrNoData)
			assert.ErrorIs(t, err, apperrors.ErrImport)
		})
	}
}

func TestImportPayables_Errors(t *testing.T) {
	_, err := NewImporter("").ImportPayables(context.Background(), strings.NewReader("not a workbook"), "junk.xlsx")
	require.ErrorIs(t, err, apperrors.ErrImport)
	var importErr *apperrors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, "junk.xlsx", importErr.Source)

	noDueColumn := workbook(t, sheet{name: "Analítico", rows: [][]any{{"Filial", "Valor"}, {"01", 10}}})
	_, err = NewImporter("").ImportPayables(context.Background(), noDueColumn, "x.xlsx")
	assert.ErrorIs(t, err, apperrors.ErrImport)
	assert.NotErrorIs(t, err, apperrors.ErrNoData)

	badAmount := workbook(t, sheet{name: "Analítico", rows: [][]any{
		erpHeader,
		{"01", "NF-1", "", "", "ACME", "2025-03-01", "", "", "a lot", "", ""},
	}})
	_, err = NewImporter("").ImportPayables(context.Background(), badAmount, "x.xlsx")
	assert.ErrorIs(t, err, apperrors.ErrImport)
	assert.Contains(t, err.Error(), "row 2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewImporter("").ImportPayables(ctx, strings.NewReader(""), "x.xlsx")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]string{"": "0.00", "10": "10.00", "-3.5": "-3.50", "R$ 1.234,56": "1234.56", "12,5": "12.50"} {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.StringFixed(2), in)
	}
}
