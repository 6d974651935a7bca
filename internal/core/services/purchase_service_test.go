package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/platform/retry"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	mockGateway     *MockPaymentGateway
	mockLedger      *MockLedgerService
	mockAccountRepo *MockAccountRepository
	service         portssvc.PurchaseSvc

	item      domain.CatalogItem
	recipient gateways.Recipient
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.mockGateway = new(MockPaymentGateway)
	suite.mockLedger = new(MockLedgerService)
	suite.mockAccountRepo = new(MockAccountRepository)
	policy := retry.Policy{MaxAttempts: 3, BackoffUnit: time.Millisecond}
	suite.service = services.NewPurchaseService(suite.mockGateway, suite.mockLedger, suite.mockAccountRepo, policy)

	self := int64(42)
	suite.item = domain.CatalogItem{ID: "g1", Price: 6000, Supply: 500}
	suite.recipient = gateways.Recipient{AccountID: &self}
}

func (suite *PurchaseServiceTestSuite) expectBalance(balance int64) {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, int64(42)).
		Return(&domain.Account{AccountID: 42, Balance: balance}, nil).Once()
}

func (suite *PurchaseServiceTestSuite) TestExecute_Success() {
	ctx := context.Background()
	suite.expectBalance(10000)
	suite.mockGateway.On("SendItem", mock.Anything, "g1", suite.recipient).Return(nil).Once()
	suite.mockLedger.On("ChargePurchase", mock.Anything, int64(42), "g1", int64(6000)).
		Return(int64(4000), int64(600), nil).Once()

	err := suite.service.Execute(ctx, 42, suite.item, suite.recipient)

	suite.Require().NoError(err)
	suite.mockGateway.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestExecute_RateLimitDoesNotConsumeAttempt() {
	ctx := context.Background()
	suite.expectBalance(10000)

	// Two rate-limit waits, then success; the budget is untouched.
	suite.mockGateway.On("SendItem", mock.Anything, "g1", suite.recipient).
		Return(&apperrors.RateLimitedError{RetryAfter: time.Millisecond}).Twice()
	suite.mockGateway.On("SendItem", mock.Anything, "g1", suite.recipient).Return(nil).Once()
	suite.mockLedger.On("ChargePurchase", mock.Anything, int64(42), "g1", int64(6000)).
		Return(int64(4000), int64(600), nil).Once()

	err := suite.service.Execute(ctx, 42, suite.item, suite.recipient)

	suite.Require().NoError(err)
	suite.mockGateway.AssertNumberOfCalls(suite.T(), "SendItem", 3)
}

func (suite *PurchaseServiceTestSuite) TestExecute_TransientExhaustsBudget() {
	ctx := context.Background()
	suite.expectBalance(10000)

	transient := &apperrors.TransientError{Err: fmt.Errorf("connection reset")}
	suite.mockGateway.On("SendItem", mock.Anything, "g1", suite.recipient).Return(transient).Times(3)

	err := suite.service.Execute(ctx, 42, suite.item, suite.recipient)

	suite.Require().Error(err)
	suite.True(apperrors.IsRetryable(err))
	suite.mockGateway.AssertNumberOfCalls(suite.T(), "SendItem", 3)
	// No delivery, no charge.
	suite.mockLedger.AssertNotCalled(suite.T(), "ChargePurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestExecute_PermanentFailsImmediately() {
	ctx := context.Background()
	suite.expectBalance(10000)

	permanent := fmt.Errorf("%w: item sold out", apperrors.ErrProviderPermanent)
	suite.mockGateway.On("SendItem", mock.Anything, "g1", suite.recipient).Return(permanent).Once()

	err := suite.service.Execute(ctx, 42, suite.item, suite.recipient)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrProviderPermanent)
	suite.mockGateway.AssertNumberOfCalls(suite.T(), "SendItem", 1)
	suite.mockLedger.AssertNotCalled(suite.T(), "ChargePurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestExecute_InsufficientBalancePrecondition() {
	ctx := context.Background()
	suite.expectBalance(100)

	err := suite.service.Execute(ctx, 42, suite.item, suite.recipient)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockGateway.AssertNotCalled(suite.T(), "SendItem", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestExecute_RejectsAmbiguousRecipient() {
	ctx := context.Background()

	err := suite.service.Execute(ctx, 42, suite.item, gateways.Recipient{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
