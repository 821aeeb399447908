package cashflow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitTolerance is the largest absolute difference between the installment sum and the new
// total accepted without a warning.
var SplitTolerance = decimal.NewFromFloat(0.01)

// DefaultSplitDescription is used when a split carries no note.
const DefaultSplitDescription = "Installment plan"

// InstallmentSpec is one requested installment.
type InstallmentSpec struct {
	DueDate domain.Date
	Amount  decimal.Decimal
}

// SplitRequest describes how to split one record.
type SplitRequest struct {
	Installments []InstallmentSpec
	Note         string
	// NewTotal is the revised value of the obligation; nil means the sum of the installments.
	NewTotal *decimal.Decimal
	// PaymentStatus and Priority, when set, are written on every installment.
	PaymentStatus *domain.PaymentStatus
	Priority      *domain.Priority
}

// SplitResult holds the rewritten source (installment 1), the appended installments 2..N and
// the audit entry describing the split.
type SplitResult struct {
	UpdatedSource domain.CashItem
	NewItems      []domain.CashItem
	Plan          domain.InstallmentPlan
	Warnings      []string
}

// Splitter turns one record into N dated installments.
type Splitter struct {
	ids       *IDGenerator
	now       func() time.Time
	newPlanID func() string
}

// NewSplitter wires the id generator, clock and plan id source. A nil clock means time.Now.
func NewSplitter(ids *IDGenerator, now func() time.Time, newPlanID func() string) *Splitter {
	if now == nil {
		now = time.Now
	}
	if ids == nil {
		ids = NewIDGenerator(now)
	}
	return &Splitter{ids: ids, now: now, newPlanID: newPlanID}
}

func installmentField(n int, field string) string {
	return fmt.Sprintf("installments[%d].%s", n, field)
}

// validate checks every precondition before anything is built.
func (s *Splitter) validate(req SplitRequest) error {
	if len(req.Installments) == 0 {
		return apperrors.NewValidationError("installments", "at least one installment is required")
	}
	for i, inst := range req.Installments {
		n := i + 1
		if !inst.DueDate.Valid() {
			return apperrors.NewValidationError(installmentField(n, "dueDate"), "installment %d has no valid due date", n)
		}
		if inst.Amount.IsNegative() {
			return apperrors.NewValidationError(installmentField(n, "amount"), "installment %d has a negative amount %s", n, inst.Amount.StringFixed(2))
		}
		note := installmentNote(n, len(req.Installments), req.Note)
		if domain.TruncateNote(note) != note {
			return apperrors.NewValidationError(installmentField(n, "note"), "installment %d note exceeds %d characters", n, domain.MaxNoteLength)
		}
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return apperrors.NewValidationError("priority", "must be between %d and %d, got %d", domain.MinPriority, domain.MaxPriority, *req.Priority)
	}
	if req.PaymentStatus != nil && !req.PaymentStatus.Valid() {
		return apperrors.NewValidationError("paymentStatus", "unknown status %q", *req.PaymentStatus)
	}
	if req.NewTotal != nil && req.NewTotal.IsNegative() {
		return apperrors.NewValidationError("newTotal", "must not be negative")
	}
	return nil
}

func describe(note string) string {
	if d := strings.TrimSpace(note); d != "" {
		return d
	}
	return DefaultSplitDescription
}

func installmentTag(n, count int) string {
	return strconv.Itoa(n) + "/" + strconv.Itoa(count)
}

func installmentNote(n, count int, note string) string {
	return "INSTALLMENT " + installmentTag(n, count) + " - " + describe(note)
}

// Split rewrites source as installment 1 and builds installments 2..N as copies of the
// pre-split source. The renegotiated due date carries over to every installment and each
// split gets a fresh original obligation id. taken holds the ids already used in the working
// set; generated ids are added to it, including ids reserved before a failure.
func (s *Splitter) Split(source domain.CashItem, req SplitRequest, taken map[string]struct{}) (SplitResult, error) {
	if err := s.validate(req); err != nil {
		return SplitResult{}, err
	}
	if taken == nil {
		taken = make(map[string]struct{})
	}

	count := len(req.Installments)
	sum := decimal.Zero
	for _, inst := range req.Installments {
		sum = sum.Add(inst.Amount)
	}
	newTotal := sum
	if req.NewTotal != nil {
		newTotal = *req.NewTotal
	}

	var warnings []string
	if diff := sum.Sub(newTotal).Abs(); diff.GreaterThan(SplitTolerance) {
		warnings = append(warnings, fmt.Sprintf("installments sum to %s but the new total is %s (difference %s)",
			sum.StringFixed(2), newTotal.StringFixed(2), diff.StringFixed(2)))
	}

	originalID, err := s.ids.Next(source.IdentityKey(), taken)
	if err != nil {
		return SplitResult{}, err
	}

	base := source.Clone()
	status := base.PaymentStatus
	if req.PaymentStatus != nil {
		status = *req.PaymentStatus
	}
	priority := base.Priority
	if req.Priority != nil {
		priority = *req.Priority
	}

	installments := make([]domain.CashItem, count)
	planned := make([]domain.PlannedInstallment, count)
	for i, inst := range req.Installments {
		n := i + 1
		item := base.Clone()
		item.Amount = inst.Amount
		item.OriginalDueDate = inst.DueDate
		item.InstallmentTag = installmentTag(n, count)
		item.NegotiationNote = installmentNote(n, count, req.Note)
		item.HistoryText = "INST " + item.InstallmentTag + " - " + base.HistoryText
		item.PaymentStatus = status
		item.Priority = priority
		item.OriginalObligationID = originalID

		id, err := s.ids.Next(item.IdentityKey(), taken)
		if err != nil {
			return SplitResult{}, fmt.Errorf("installment %d: %w", n, err)
		}
		item.InstallmentID = id
		item.ID = id
		installments[i] = item

		origin := domain.OriginNew
		if n == 1 {
			origin = domain.OriginSource
		}
		planned[i] = domain.PlannedInstallment{
			Number:      n,
			Tag:         item.InstallmentTag,
			DueDate:     inst.DueDate,
			Amount:      inst.Amount,
			GeneratedID: id,
			Origin:      origin,
		}
	}

	plan := domain.InstallmentPlan{
		OperationType:        domain.OperationInstallmentSplit,
		OriginalObligationID: originalID,
		Source: domain.ObligationRef{
			ItemID:           source.ID,
			Branch:           source.Branch,
			DocumentNumber:   source.DocumentNumber,
			InstallmentTag:   source.InstallmentTag,
			Payee:            source.Payee,
			CounterpartyName: source.CounterpartyName,
			OriginalDueDate:  source.OriginalDueDate,
		},
		OriginalAmount:   source.Amount,
		NewTotalAmount:   newTotal,
		InstallmentCount: count,
		FirstDueDate:     req.Installments[0].DueDate,
		Installments:     planned,
		Description:      describe(req.Note),
		PaymentStatus:    status,
		Priority:         priority,
		CreatedAt:        domain.NewTimestamp(s.now()),
	}
	if s.newPlanID != nil {
		plan.PlanID = s.newPlanID()
	}

	return SplitResult{
		UpdatedSource: installments[0],
		NewItems:      installments[1:],
		Plan:          plan,
		Warnings:      warnings,
	}, nil
}

// EqualInstallments spreads total over count monthly installments starting at first. Each
// installment is total/count rounded to cents; the rounding remainder goes to the last one.
// Dates past the end of a shorter month are clamped to its last day.
func EqualInstallments(total decimal.Decimal, count int, first domain.Date) ([]InstallmentSpec, error) {
	if count < 1 {
		return nil, apperrors.NewValidationError("count", "must be at least 1, got %d", count)
	}
	if !first.Valid() {
		return nil, apperrors.NewValidationError("firstDueDate", "a valid date is required")
	}
	share := total.Div(decimal.NewFromInt(int64(count))).Round(2)
	specs := make([]InstallmentSpec, count)
	allocated := decimal.Zero
	for i := 0; i < count; i++ {
		amount := share
		if i == count-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		specs[i] = InstallmentSpec{DueDate: first.AddMonths(i), Amount: amount}
	}
	return specs, nil
}
