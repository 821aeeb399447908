package domain

import (
	"github.com/shopspring/decimal"
)

// OperationInstallmentSplit marks plan entries created by splitting an obligation.
const OperationInstallmentSplit = "installment_split"

// InstallmentOrigin tells whether an installment rewrote the source record or was appended.
type InstallmentOrigin string

const (
	OriginSource InstallmentOrigin = "SOURCE"
	OriginNew    InstallmentOrigin = "NEW"
)

// ObligationRef identifies the obligation a plan was created from, as it was before the split.
type ObligationRef struct {
	ItemID           string `json:"itemId,omitempty"`
	Branch           string `json:"branch"`
	DocumentNumber   string `json:"documentNumber"`
	InstallmentTag   string `json:"installmentTag"`
	Payee            string `json:"payee"`
	CounterpartyName string `json:"counterpartyName"`
	OriginalDueDate  Date   `json:"originalDueDate"`
}

// PlannedInstallment is one line of an InstallmentPlan.
type PlannedInstallment struct {
	Number      int               `json:"number"`
	Tag         string            `json:"tag"`
	DueDate     Date              `json:"dueDate"`
	Amount      decimal.Decimal   `json:"amount"`
	GeneratedID string            `json:"generatedId"`
	Origin      InstallmentOrigin `json:"origin"`
}

// InstallmentPlan is the immutable audit entry written for every installment split. Entries are
// only ever appended, except for explicit administrative removal.
type InstallmentPlan struct {
	PlanID               string               `json:"planId"`
	OperationType        string               `json:"operationType"`
	OriginalObligationID string               `json:"originalObligationId"`
	Source               ObligationRef        `json:"source"`
	OriginalAmount       decimal.Decimal      `json:"originalAmount"`
	NewTotalAmount       decimal.Decimal      `json:"newTotalAmount"`
	InstallmentCount     int                  `json:"installmentCount"`
	FirstDueDate         Date                 `json:"firstDueDate"`
	Installments         []PlannedInstallment `json:"installments"`
	Description          string               `json:"description"`
	PaymentStatus        PaymentStatus        `json:"paymentStatus"`
	Priority             Priority             `json:"priority"`
	CreatedAt            Timestamp            `json:"createdAt"`
}

// InstallmentPlanStats aggregates the installment audit log.
type InstallmentPlanStats struct {
	PlanCount             int             `json:"planCount"`
	InstallmentCount      int             `json:"installmentCount"`
	TotalOriginalAmount   decimal.Decimal `json:"totalOriginalAmount"`
	TotalNewAmount        decimal.Decimal `json:"totalNewAmount"`
	TotalAmountDifference decimal.Decimal `json:"totalAmountDifference"`
}
