package services_test

import (
	"context"
	"testing"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const refundAccountID = int64(42)

type RefundServiceTestSuite struct {
	suite.Suite
	mockGateway *MockPaymentGateway
	mockLedger  *MockLedgerService
	service     portssvc.RefundSvc
}

func (suite *RefundServiceTestSuite) SetupTest() {
	suite.mockGateway = new(MockPaymentGateway)
	suite.mockLedger = new(MockLedgerService)
	suite.service = services.NewRefundService(suite.mockGateway, suite.mockLedger, 18)
}

// expectHistory wires the paged transaction listing: one page with the
// given transactions, then an empty page.
func (suite *RefundServiceTestSuite) expectHistory(txns []domain.StarTransaction) {
	suite.mockGateway.On("ListTransactions", suite.ctx(), 0, 100).Return(txns, nil).Once()
	suite.mockGateway.On("ListTransactions", suite.ctx(), 100, 100).Return([]domain.StarTransaction{}, nil).Once()
}

func (suite *RefundServiceTestSuite) ctx() context.Context {
	return context.Background()
}

func deposit(id string, amount int64) domain.StarTransaction {
	source := refundAccountID
	return domain.StarTransaction{ID: id, Amount: amount, SourceAccountID: &source}
}

func (suite *RefundServiceTestSuite) TestReconcile_ExactMatch() {
	ctx := suite.ctx()
	suite.expectHistory([]domain.StarTransaction{
		deposit("t1", 3000),
		deposit("t2", 5000),
		deposit("t3", 7000),
	})

	// 3000 + 7000 hits the target exactly.
	suite.mockGateway.On("ReverseTransaction", ctx, refundAccountID, "t1").Return(nil).Once()
	suite.mockGateway.On("ReverseTransaction", ctx, refundAccountID, "t3").Return(nil).Once()
	suite.mockLedger.On("SettleRefund", ctx, refundAccountID, int64(10000)).Return(int64(1000), nil).Once()

	outcome, err := suite.service.Reconcile(ctx, refundAccountID, 10000)

	suite.Require().NoError(err)
	suite.Equal(int64(10000), outcome.Refunded)
	suite.Equal(2, outcome.Count)
	suite.ElementsMatch([]string{"t1", "t3"}, outcome.TransactionIDs)
	suite.Equal(int64(0), outcome.Leftover)
	suite.Nil(outcome.NextDeposit)

	suite.mockGateway.AssertNotCalled(suite.T(), "ReverseTransaction", ctx, refundAccountID, "t2")
	suite.mockGateway.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *RefundServiceTestSuite) TestReconcile_PartialWithHint() {
	ctx := suite.ctx()
	suite.expectHistory([]domain.StarTransaction{
		deposit("t1", 3000),
		deposit("t2", 5000),
		deposit("t3", 7000),
	})

	// Best subset under 9000 is 3000+5000; 7000 remains as a hint for
	// the 1000 that could not be covered.
	suite.mockGateway.On("ReverseTransaction", ctx, refundAccountID, "t1").Return(nil).Once()
	suite.mockGateway.On("ReverseTransaction", ctx, refundAccountID, "t2").Return(nil).Once()
	suite.mockLedger.On("SettleRefund", ctx, refundAccountID, int64(8000)).Return(int64(800), nil).Once()

	outcome, err := suite.service.Reconcile(ctx, refundAccountID, 9000)

	suite.Require().NoError(err)
	suite.Equal(int64(8000), outcome.Refunded)
	suite.Equal(int64(1000), outcome.Leftover)
	suite.Require().NotNil(outcome.NextDeposit)
	suite.Equal("t3", outcome.NextDeposit.TransactionID)
	suite.Equal(int64(7000), outcome.NextDeposit.Amount)
}

func (suite *RefundServiceTestSuite) TestReconcile_SkipsFailedReversal() {
	ctx := suite.ctx()
	suite.expectHistory([]domain.StarTransaction{
		deposit("t1", 3000),
		deposit("t2", 7000),
	})

	suite.mockGateway.On("ReverseTransaction", ctx, refundAccountID, "t1").Return(assert.AnError).Once()
	suite.mockGateway.On("ReverseTransaction", ctx, refundAccountID, "t2").Return(nil).Once()
	// Only the successful reversal is settled.
	suite.mockLedger.On("SettleRefund", ctx, refundAccountID, int64(7000)).Return(int64(700), nil).Once()

	outcome, err := suite.service.Reconcile(ctx, refundAccountID, 10000)

	suite.Require().NoError(err)
	suite.Equal(int64(7000), outcome.Refunded)
	suite.Equal(1, outcome.Count)
	suite.Equal([]string{"t2"}, outcome.TransactionIDs)
}

func (suite *RefundServiceTestSuite) TestReconcile_IgnoresAlreadyRefunded() {
	ctx := suite.ctx()
	// t1 has a matching reversal record (no source account id), so only
	// t2 is still refundable.
	suite.expectHistory([]domain.StarTransaction{
		deposit("t1", 3000),
		{ID: "t1", Amount: 3000},
		deposit("t2", 5000),
	})

	suite.mockGateway.On("ReverseTransaction", ctx, refundAccountID, "t2").Return(nil).Once()
	suite.mockLedger.On("SettleRefund", ctx, refundAccountID, int64(5000)).Return(int64(500), nil).Once()

	outcome, err := suite.service.Reconcile(ctx, refundAccountID, 5000)

	suite.Require().NoError(err)
	suite.Equal(int64(5000), outcome.Refunded)
	suite.Equal([]string{"t2"}, outcome.TransactionIDs)
	suite.mockGateway.AssertNotCalled(suite.T(), "ReverseTransaction", ctx, refundAccountID, "t1")
}

func (suite *RefundServiceTestSuite) TestReconcile_IgnoresOtherAccounts() {
	ctx := suite.ctx()
	other := int64(99)
	suite.expectHistory([]domain.StarTransaction{
		{ID: "t1", Amount: 5000, SourceAccountID: &other},
		deposit("t2", 5000),
	})

	suite.mockGateway.On("ReverseTransaction", ctx, refundAccountID, "t2").Return(nil).Once()
	suite.mockLedger.On("SettleRefund", ctx, refundAccountID, int64(5000)).Return(int64(500), nil).Once()

	outcome, err := suite.service.Reconcile(ctx, refundAccountID, 5000)

	suite.Require().NoError(err)
	suite.Equal([]string{"t2"}, outcome.TransactionIDs)
}

func (suite *RefundServiceTestSuite) TestReconcile_NoCombination() {
	ctx := suite.ctx()
	suite.expectHistory([]domain.StarTransaction{
		deposit("t1", 5000),
	})

	outcome, err := suite.service.Reconcile(ctx, refundAccountID, 3000)

	suite.Require().NoError(err)
	suite.Equal(int64(0), outcome.Refunded)
	suite.Empty(outcome.TransactionIDs)
	suite.Equal(int64(3000), outcome.Leftover)
	suite.mockGateway.AssertNotCalled(suite.T(), "ReverseTransaction", ctx, refundAccountID, "t1")
	suite.mockLedger.AssertNotCalled(suite.T(), "SettleRefund", ctx, refundAccountID, int64(0))
}

func (suite *RefundServiceTestSuite) TestReconcile_NonPositiveTarget() {
	ctx := suite.ctx()

	outcome, err := suite.service.Reconcile(ctx, refundAccountID, 0)

	suite.Require().NoError(err)
	suite.Equal(int64(0), outcome.Refunded)
	suite.Empty(outcome.TransactionIDs)
	suite.mockGateway.AssertNotCalled(suite.T(), "ListTransactions", ctx, 0, 100)
}

func TestRefundServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RefundServiceTestSuite))
}
