package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MaxNoteLength is the maximum number of characters of a negotiation note.
const MaxNoteLength = 200

// Priority ranks an obligation from 1 (most urgent) to 5 (least urgent). The zero value means
// the obligation has no priority and sorts after every ranked one.
type Priority int

const (
	PriorityUnset Priority = 0
	MinPriority   Priority = 1
	MaxPriority   Priority = 5
)

// unsetPrioritySortRank places unranked items after every ranked tier.
const unsetPrioritySortRank = 999

// IsSet reports whether p is a ranked priority.
func (p Priority) IsSet() bool { return p != PriorityUnset }

// Valid reports whether p is unset or within 1..5.
func (p Priority) Valid() bool {
	return p == PriorityUnset || (p >= MinPriority && p <= MaxPriority)
}

// SortRank maps the unset priority to a sentinel greater than every valid tier.
func (p Priority) SortRank() int {
	if !p.IsSet() {
		return unsetPrioritySortRank
	}
	return int(p)
}

// Ptr returns a pointer to a copy of p.
func (p Priority) Ptr() *Priority { return &p }

// Label is the display name of a priority tier.
func (p Priority) Label() string {
	switch p {
	case 1:
		return "Priority 1 - Urgent"
	case 2:
		return "Priority 2 - High"
	case 3:
		return "Priority 3 - Medium"
	case 4:
		return "Priority 4 - Low"
	case 5:
		return "Priority 5 - Very Low"
	default:
		return "No Priority"
	}
}

// String renders the priority number, or an empty string when unset.
func (p Priority) String() string {
	if !p.IsSet() {
		return ""
	}
	return strconv.Itoa(int(p))
}

// MarshalJSON writes the unset priority as null.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.IsSet() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(p))), nil
}

// UnmarshalJSON accepts null, integers, integral floats (1.0, as written by older spreadsheet
// exports) and numeric strings. Anything else is read as unset.
func (p *Priority) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = PriorityUnset
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f != float64(int(f)) {
		*p = PriorityUnset
		return nil
	}
	*p = Priority(int(f))
	return nil
}

// PaymentStatus tracks whether an obligation has been settled.
type PaymentStatus string

const (
	StatusUnset  PaymentStatus = ""
	StatusPaid   PaymentStatus = "PAID"
	StatusUnpaid PaymentStatus = "UNPAID"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusUnset, StatusPaid, StatusUnpaid:
		return true
	}
	return false
}

// ParsePaymentStatus maps current and legacy codes ("PG", "N_PG") to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return StatusUnset, nil
	case "PAID", "PG":
		return StatusPaid, nil
	case "UNPAID", "N_PG":
		return StatusUnpaid, nil
	}
	return StatusUnset, fmt.Errorf("unknown payment status %q", s)
}

// MarshalJSON writes the unset status as null.
func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	if s == StatusUnset {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts null and any code understood by ParsePaymentStatus; unknown codes
// are read as unset.
func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*s = StatusUnset
		return nil
	}
	parsed, err := ParsePaymentStatus(*raw)
	if err != nil {
		*s = StatusUnset
		return nil
	}
	*s = parsed
	return nil
}

// CashItem is one payable obligation of the schedule.
type CashItem struct {
	ID                   string          `json:"id,omitempty"`
	Branch               string          `json:"branch"`
	DocumentNumber       string          `json:"documentNumber"`
	InstallmentTag       string          `json:"installmentTag"`
	Payee                string          `json:"payee"`
	CounterpartyName     string          `json:"counterpartyName"`
	OriginalDueDate      Date            `json:"originalDueDate"`
	RenegotiatedDueDate  *Date           `json:"renegotiatedDueDate"`
	Priority             Priority        `json:"priority"`
	Amount               decimal.Decimal `json:"amount"`
	RunningSubtotal      decimal.Decimal `json:"runningSubtotal"` // derived, recomputed on every ordering
	PaymentStatus        PaymentStatus   `json:"paymentStatus"`
	NegotiationNote      string          `json:"negotiationNote"`
	HistoryText          string          `json:"historyText"`
	InstallmentID        string          `json:"installmentId,omitempty"`
	OriginalObligationID string          `json:"originalObligationId,omitempty"`
}

// EffectiveDate is the renegotiated due date when present, else the original due date.
func (c CashItem) EffectiveDate() Date {
	if c.IsRenegotiated() {
		return *c.RenegotiatedDueDate
	}
	return c.OriginalDueDate
}

// IsRenegotiated reports whether a valid renegotiated due date is set.
func (c CashItem) IsRenegotiated() bool {
	return c.RenegotiatedDueDate != nil && c.RenegotiatedDueDate.Valid()
}

// NaturalKey is the composite reconciliation key (original due date, counterparty name).
// Two obligations due the same day to the same counterparty share it.
func (c CashItem) NaturalKey() string {
	return c.OriginalDueDate.String() + "|" + c.CounterpartyName
}

// IdentityKey joins the columns that identify a spreadsheet row. It feeds surrogate ids and
// installment ids.
func (c CashItem) IdentityKey() string {
	return strings.Join([]string{
		c.Branch,
		c.DocumentNumber,
		c.InstallmentTag,
		c.Payee,
		c.OriginalDueDate.String(),
	}, "|")
}

// Clone returns a deep copy of c.
func (c CashItem) Clone() CashItem {
	out := c
	if c.RenegotiatedDueDate != nil {
		d := *c.RenegotiatedDueDate
		out.RenegotiatedDueDate = &d
	}
	return out
}

// Normalize is the single load-time migration step for records read from snapshots or
// imports: unparseable optional dates become unset, out-of-range priorities become unset,
// unknown statuses become unset and surrounding whitespace is trimmed from text keys.
func (c *CashItem) Normalize() {
	c.Branch = strings.TrimSpace(c.Branch)
	c.DocumentNumber = strings.TrimSpace(c.DocumentNumber)
	c.InstallmentTag = strings.TrimSpace(c.InstallmentTag)
	c.Payee = strings.TrimSpace(c.Payee)
	c.CounterpartyName = strings.TrimSpace(c.CounterpartyName)
	if c.RenegotiatedDueDate != nil && !c.RenegotiatedDueDate.Valid() {
		c.RenegotiatedDueDate = nil
	}
	if !c.Priority.Valid() {
		c.Priority = PriorityUnset
	}
	if !c.PaymentStatus.Valid() {
		c.PaymentStatus = StatusUnset
	}
}

// Validate checks the record invariants.
func (c CashItem) Validate() error {
	if !c.OriginalDueDate.Valid() {
		return apperrors.NewValidationError("originalDueDate", "a valid due date is required")
	}
	if c.RenegotiatedDueDate != nil && !c.RenegotiatedDueDate.Valid() {
		return apperrors.NewValidationError("renegotiatedDueDate", "must be a valid date when set")
	}
	if !c.Priority.Valid() {
		return apperrors.NewValidationError("priority", "must be between %d and %d, got %d", MinPriority, MaxPriority, c.Priority)
	}
	if !c.PaymentStatus.Valid() {
		return apperrors.NewValidationError("paymentStatus", "unknown status %q", c.PaymentStatus)
	}
	if n := utf8.RuneCountInString(c.NegotiationNote); n > MaxNoteLength {
		return apperrors.NewValidationError("negotiationNote", "must be at most %d characters, got %d", MaxNoteLength, n)
	}
	return nil
}

// TruncateNote cuts s to MaxNoteLength characters.
func TruncateNote(s string) string {
	if utf8.RuneCountInString(s) <= MaxNoteLength {
		return s
	}
	return string([]rune(s)[:MaxNoteLength])
}
