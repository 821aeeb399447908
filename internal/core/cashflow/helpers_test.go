package cashflow

import (
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

func d(s string) domain.Date { return domain.MustParseDate(s) }

func dp(s string) *domain.Date { return domain.MustParseDate(s).Ptr() }

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// payable builds a minimal valid record.
func payable(doc, counterparty, due, amount string, priority domain.Priority) domain.CashItem {
	return domain.CashItem{
		Branch:           "01",
		DocumentNumber:   doc,
		InstallmentTag:   "1/1",
		Payee:            "P-" + counterparty,
		CounterpartyName: counterparty,
		OriginalDueDate:  d(due),
		Priority:         priority,
		Amount:           amt(amount),
	}
}

func docs(items []domain.CashItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.DocumentNumber
	}
	return out
}

func fixed(items []decimal.Decimal) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = v.StringFixed(2)
	}
	return out
}
