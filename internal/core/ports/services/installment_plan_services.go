package services

import (
	"context"

	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	"github.com/SscSPs/cash_flow_app/internal/dto"
)

// InstallmentPlanReaderSvc reads the installment audit log.
type InstallmentPlanReaderSvc interface {
	ListInstallmentPlans(ctx context.Context, params dto.ListInstallmentPlansParams) (*dto.ListInstallmentPlansResponse, error)
	GetInstallmentPlanStats(ctx context.Context) (*domain.InstallmentPlanStats, error)
}

// InstallmentPlanAdminSvc holds administrative operations on the audit log.
type InstallmentPlanAdminSvc interface {
	DeleteInstallmentPlan(ctx context.Context, planID string) error
}

// InstallmentPlanSvcFacade combines all installment plan service interfaces
type InstallmentPlanSvcFacade interface {
	InstallmentPlanReaderSvc
	InstallmentPlanAdminSvc
}
