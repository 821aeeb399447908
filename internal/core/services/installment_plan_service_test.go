package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/core/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InstallmentPlanServiceTestSuite struct {
	suite.Suite
	mockRepo *MockInstallmentPlanRepository
	service  portssvc.InstallmentPlanSvcFacade
	ctx      context.Context
}

func (suite *InstallmentPlanServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInstallmentPlanRepository)
	suite.service = services.NewInstallmentPlanService(suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *InstallmentPlanServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func plan(id, counterparty string, createdAt time.Time, original, newTotal string, count int) domain.InstallmentPlan {
	return domain.InstallmentPlan{
		PlanID:           id,
		OperationType:    domain.OperationInstallmentSplit,
		Source:           domain.ObligationRef{CounterpartyName: counterparty},
		OriginalAmount:   decimal.RequireFromString(original),
		NewTotalAmount:   decimal.RequireFromString(newTotal),
		InstallmentCount: count,
		CreatedAt:        domain.NewTimestamp(createdAt),
	}
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
}

func planIDs(plans []domain.InstallmentPlan) []string {
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.PlanID
	}
	return ids
}

func (suite *InstallmentPlanServiceTestSuite) TestList_NewestFirstWithFilters() {
	suite.mockRepo.On("ListInstallmentPlans", mock.Anything).Return([]domain.InstallmentPlan{
		plan("p1", "ACME Ltda", day(1), "100", "100", 2),
		plan("p2", "Globex", day(5), "100", "100", 2),
		plan("p3", "acme industrial", day(10), "100", "100", 2),
		plan("p4", "ACME Ltda", day(20), "100", "100", 2),
	}, nil).Once()

	resp, err := suite.service.ListInstallmentPlans(suite.ctx, dto.ListInstallmentPlansParams{
		From:         "2025-03-01",
		To:           "2025-03-10",
		Counterparty: "acme",
	})

	suite.Require().NoError(err)
	suite.Equal([]string{"p3", "p1"}, planIDs(resp.Plans))
	suite.Nil(resp.NextToken)
}

func (suite *InstallmentPlanServiceTestSuite) TestList_PagesThroughAllPlans() {
	var all []domain.InstallmentPlan
	for i := 1; i <= 5; i++ {
		all = append(all, plan(fmt.Sprintf("p%d", i), "ACME", day(i), "10", "10", 1))
	}
	// same creation time as p5; ties break on plan id
	all = append(all, plan("p6", "ACME", day(5), "10", "10", 1))
	suite.mockRepo.On("ListInstallmentPlans", mock.Anything).Return(all, nil)

	var seen []string
	params := dto.ListInstallmentPlansParams{Limit: 2}
	for page := 0; page < 10; page++ {
		resp, err := suite.service.ListInstallmentPlans(suite.ctx, params)
		suite.Require().NoError(err)
		seen = append(seen, planIDs(resp.Plans)...)
		if resp.NextToken == nil {
			break
		}
		params.NextToken = resp.NextToken
	}

	suite.Equal([]string{"p6", "p5", "p4", "p3", "p2", "p1"}, seen)
}

func (suite *InstallmentPlanServiceTestSuite) TestList_InvalidParams() {
	bad := "%%%"
	testCases := []struct {
		name   string
		params dto.ListInstallmentPlansParams
		field  string
	}{
		{"bad from", dto.ListInstallmentPlansParams{From: "yesterday"}, "from"},
		{"bad to", dto.ListInstallmentPlansParams{To: "2025-13-01"}, "to"},
		{"inverted range", dto.ListInstallmentPlansParams{From: "2025-03-10", To: "2025-03-01"}, "from"},
		{"bad token", dto.ListInstallmentPlansParams{NextToken: &bad}, "nextToken"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.service.ListInstallmentPlans(suite.ctx, tc.params)
			var vErr *apperrors.ValidationError
			suite.Require().ErrorAs(err, &vErr)
			suite.Equal(tc.field, vErr.Field)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "ListInstallmentPlans", mock.Anything)
}

func (suite *InstallmentPlanServiceTestSuite) TestStats() {
	suite.mockRepo.On("ListInstallmentPlans", mock.Anything).Return([]domain.InstallmentPlan{
		plan("p1", "ACME", day(1), "900.00", "990.00", 3),
		plan("p2", "Globex", day(2), "500.00", "450.00", 2),
	}, nil).Once()

	stats, err := suite.service.GetInstallmentPlanStats(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal(2, stats.PlanCount)
	suite.Equal(5, stats.InstallmentCount)
	suite.Equal("1400.00", stats.TotalOriginalAmount.StringFixed(2))
	suite.Equal("1440.00", stats.TotalNewAmount.StringFixed(2))
	suite.Equal("40.00", stats.TotalAmountDifference.StringFixed(2))
}

func (suite *InstallmentPlanServiceTestSuite) TestStats_Empty() {
	suite.mockRepo.On("ListInstallmentPlans", mock.Anything).Return([]domain.InstallmentPlan{}, nil).Once()

	stats, err := suite.service.GetInstallmentPlanStats(suite.ctx)

	suite.Require().NoError(err)
	suite.Zero(stats.PlanCount)
	suite.True(stats.TotalAmountDifference.IsZero())
}

func (suite *InstallmentPlanServiceTestSuite) TestDelete() {
	suite.mockRepo.On("DeleteInstallmentPlan", mock.Anything, "p1").Return(nil).Once()
	suite.mockRepo.On("DeleteInstallmentPlan", mock.Anything, "missing").Return(apperrors.ErrNotFound).Once()

	suite.NoError(suite.service.DeleteInstallmentPlan(suite.ctx, " p1 "))
	suite.ErrorIs(suite.service.DeleteInstallmentPlan(suite.ctx, "missing"), apperrors.ErrNotFound)
	suite.ErrorIs(suite.service.DeleteInstallmentPlan(suite.ctx, "  "), apperrors.ErrValidation)
}

func TestInstallmentPlanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstallmentPlanServiceTestSuite))
}
