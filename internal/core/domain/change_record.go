package domain

import "github.com/shopspring/decimal"

// Names of the fields the import is allowed to refresh.
const (
	FieldRenegotiatedDueDate = "renegotiatedDueDate"
	FieldPriority            = "priority"
)

// FieldChange is a before/after pair for one field. Unset values are empty strings.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// ChangeRecord reports, for audit only, how an import differs from the stored snapshot for one
// matched key.
type ChangeRecord struct {
	OriginalDueDate     Date            `json:"originalDueDate"`
	CounterpartyName    string          `json:"counterpartyName"`
	Branch              string          `json:"branch"`
	DocumentNumber      string          `json:"documentNumber"`
	InstallmentTag      string          `json:"installmentTag"`
	Payee               string          `json:"payee"`
	Amount              decimal.Decimal `json:"amount"`
	RenegotiatedDueDate *Date           `json:"renegotiatedDueDate"` // value after the import
	Priority            Priority        `json:"priority"`            // value after the import
	Changes             []FieldChange   `json:"changes"`
	AnalyzedAt          Timestamp       `json:"analyzedAt"`
}
