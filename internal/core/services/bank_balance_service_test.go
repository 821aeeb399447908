package services_test

import (
	"context"
	"errors"
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

type BankBalanceServiceTestSuite struct {
	suite.Suite
	mockRepo *MockBankBalanceRepository
	service  portssvc.BankBalanceSvcFacade
	ctx      context.Context
}

func (suite *BankBalanceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockBankBalanceRepository)
	suite.ctx = context.Background()
	suite.service = services.NewBankBalanceService(suite.mockRepo,
		services.WithBalanceAccounts("bradesco", []string{"bradesco", "itau"}),
		services.WithBalanceClock(func() time.Time { return fixedNow }),
	)
}

func (suite *BankBalanceServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func amounts(pairs map[string]string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(pairs))
	for k, v := range pairs {
		out[k] = decimal.RequireFromString(v)
	}
	return out
}

func (suite *BankBalanceServiceTestSuite) TestGetBankBalances_NeverSaved() {
	suite.mockRepo.On("LoadBankBalances", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	snapshot, err := suite.service.GetBankBalances(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal([]string{"bradesco", "itau"}, snapshot.Accounts())
	suite.True(snapshot.Total.IsZero())
	suite.True(snapshot.LastUpdated.IsZero())
}

func (suite *BankBalanceServiceTestSuite) TestGetBankBalances_LoadFailure() {
	loadErr := &apperrors.PersistenceError{Target: "default/bank_balances", Err: errors.New("corrupt")}
	suite.mockRepo.On("LoadBankBalances", mock.Anything).Return(nil, loadErr).Once()

	_, err := suite.service.GetBankBalances(suite.ctx)

	suite.ErrorIs(err, apperrors.ErrPersistence)
}

func (suite *BankBalanceServiceTestSuite) TestSaveBankBalances_Success() {
	suite.mockRepo.On("SaveBankBalances", mock.Anything, mock.MatchedBy(func(s domain.BankBalanceSnapshot) bool {
		return s.Total.Equal(decimal.RequireFromString("1500.50")) &&
			s.LastUpdated.Equal(fixedNow) &&
			len(s.Balances) == 2
	})).Return(nil).Once()

	snapshot, err := suite.service.SaveBankBalances(suite.ctx, dto.SaveBankBalancesRequest{
		Balances: amounts(map[string]string{" bradesco ": "1000.50", "itau": "500"}),
	})

	suite.Require().NoError(err)
	suite.Equal("1500.50", snapshot.Total.StringFixed(2))
	suite.Contains(snapshot.Balances, "bradesco", "account names are trimmed")
}

func (suite *BankBalanceServiceTestSuite) TestSaveBankBalances_Validation() {
	_, err := suite.service.SaveBankBalances(suite.ctx, dto.SaveBankBalancesRequest{})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.SaveBankBalances(suite.ctx, dto.SaveBankBalancesRequest{
		Balances: amounts(map[string]string{"  ": "1"}),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveBankBalances", mock.Anything, mock.Anything)
}

func (suite *BankBalanceServiceTestSuite) TestSaveBankBalances_RepoError() {
	saveErr := &apperrors.PersistenceError{Target: "default/bank_balances", Err: errors.New("read-only file system")}
	suite.mockRepo.On("SaveBankBalances", mock.Anything, mock.Anything).Return(saveErr).Once()

	_, err := suite.service.SaveBankBalances(suite.ctx, dto.SaveBankBalancesRequest{
		Balances: amounts(map[string]string{"bradesco": "1"}),
	})

	suite.ErrorIs(err, apperrors.ErrPersistence)
}

func (suite *BankBalanceServiceTestSuite) TestAdjustPrimaryBalance() {
	stored := domain.NewBankBalanceSnapshot(amounts(map[string]string{"bradesco": "1000", "itau": "300"}), fixedNow.Add(-time.Hour))
	suite.mockRepo.On("LoadBankBalances", mock.Anything).Return(&stored, nil).Once()
	suite.mockRepo.On("SaveBankBalances", mock.Anything, mock.MatchedBy(func(s domain.BankBalanceSnapshot) bool {
		return s.Balances["bradesco"].Equal(decimal.NewFromInt(750)) &&
			s.Balances["itau"].Equal(decimal.NewFromInt(300)) &&
			s.Total.Equal(decimal.NewFromInt(1050))
	})).Return(nil).Once()

	adjusted, err := suite.service.AdjustPrimaryBalance(suite.ctx, decimal.NewFromInt(-250))

	suite.Require().NoError(err)
	suite.True(adjusted.LastUpdated.Equal(fixedNow))
	suite.Equal("1000.00", stored.Balances["bradesco"].StringFixed(2), "the loaded snapshot is not mutated")
}

func (suite *BankBalanceServiceTestSuite) TestAdjustPrimaryBalance_NeverSaved() {
	suite.mockRepo.On("LoadBankBalances", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveBankBalances", mock.Anything, mock.MatchedBy(func(s domain.BankBalanceSnapshot) bool {
		return s.Balances["bradesco"].Equal(decimal.NewFromInt(120)) && s.Balances["itau"].IsZero()
	})).Return(nil).Once()

	_, err := suite.service.AdjustPrimaryBalance(suite.ctx, decimal.NewFromInt(120))

	suite.NoError(err)
}

func (suite *BankBalanceServiceTestSuite) TestAdjustPrimaryBalance_ZeroDeltaDoesNotSave() {
	stored := domain.NewBankBalanceSnapshot(amounts(map[string]string{"bradesco": "10"}), fixedNow)
	suite.mockRepo.On("LoadBankBalances", mock.Anything).Return(&stored, nil).Once()

	snapshot, err := suite.service.AdjustPrimaryBalance(suite.ctx, decimal.Zero)

	suite.Require().NoError(err)
	suite.Equal("10.00", snapshot.Total.StringFixed(2))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveBankBalances", mock.Anything, mock.Anything)
}

func (suite *BankBalanceServiceTestSuite) TestAdjustPrimaryBalance_NoPrimaryAccount() {
	svc := services.NewBankBalanceService(suite.mockRepo)

	_, err := svc.AdjustPrimaryBalance(suite.ctx, decimal.NewFromInt(1))

	var vErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &vErr)
	suite.Equal("account", vErr.Field)
}

func TestBankBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BankBalanceServiceTestSuite))
}
