package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SchedulerServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockAccountSvc  *MockAccountService
	mockPurchaseSvc *MockPurchaseService
	mockGateway     *MockPaymentGateway
	mockNotifier    *MockNotifier
	scheduler       *services.SchedulerService
}

func (suite *SchedulerServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockPurchaseSvc = new(MockPurchaseService)
	suite.mockGateway = new(MockPaymentGateway)
	suite.mockNotifier = new(MockNotifier)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.scheduler = services.NewSchedulerService(
		suite.mockAccountRepo,
		suite.mockAccountSvc,
		suite.mockPurchaseSvc,
		suite.mockGateway,
		suite.mockNotifier,
		logger,
		0, // tick interval unused; ticks driven directly
		0, // no cooldown in tests
	)
}

func (suite *SchedulerServiceTestSuite) expectPage(accounts []domain.Account) {
	suite.mockAccountRepo.On("ListAccounts", mock.Anything, 100, 0).Return(accounts, nil).Once()
	if len(accounts) > 0 {
		suite.mockAccountRepo.On("ListAccounts", mock.Anything, 100, 100).Return([]domain.Account{}, nil).Once()
	}
}

func schedulableAccount(accountID int64, balance int64, profile domain.Profile) domain.Account {
	return domain.Account{
		AccountID: accountID,
		Balance:   balance,
		Profiles:  []domain.Profile{profile},
	}
}

func (suite *SchedulerServiceTestSuite) TestRunTick_BuysUntilSpendLimit() {
	ctx := context.Background()
	self := int64(42)
	profile := domain.Profile{
		ProfileID:       "p1",
		MinPrice:        5000,
		MaxPrice:        10000,
		MaxSupply:       10000,
		Count:           2,
		Limit:           15000,
		TargetAccountID: &self,
	}
	account := schedulableAccount(42, 20000, profile)
	suite.expectPage([]domain.Account{account})

	items := []domain.CatalogItem{
		{ID: "g1", Price: 9000, Supply: 500},
		{ID: "g2", Price: 6000, Supply: 800},
	}
	suite.mockGateway.On("FilteredCatalog", mock.Anything, gateways.CatalogFilter{
		MinPrice:  5000,
		MaxPrice:  10000,
		MaxSupply: 10000,
	}).Return(items, nil).Once()

	recipient := gateways.Recipient{AccountID: &self}
	suite.mockPurchaseSvc.On("Execute", mock.Anything, int64(42), items[0], recipient).Return(nil).Once()
	suite.mockPurchaseSvc.On("Execute", mock.Anything, int64(42), items[1], recipient).Return(nil).Once()

	// Post-charge balance reads after each purchase.
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, int64(42)).
		Return(&domain.Account{AccountID: 42, Balance: 11000}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, int64(42)).
		Return(&domain.Account{AccountID: 42, Balance: 5000}, nil).Once()

	var saved []domain.Profile
	suite.mockAccountSvc.On("SaveProfileProgress", mock.Anything, int64(42), mock.AnythingOfType("domain.Profile")).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(2).(domain.Profile)) }).
		Return(nil).Times(3)

	suite.mockNotifier.On("ProfileCompleted", mock.Anything, int64(42), mock.AnythingOfType("domain.Profile")).Return().Once()

	suite.scheduler.RunTick(ctx)

	// 9000 then 6000: spent 15000 hits the limit with 2 items bought.
	suite.Require().Len(saved, 3)
	final := saved[2]
	suite.Equal(int64(2), final.Bought)
	suite.Equal(int64(15000), final.Spent)
	suite.True(final.Done)

	suite.mockPurchaseSvc.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *SchedulerServiceTestSuite) TestRunTick_SkipsBlockedAndIdleAccounts() {
	ctx := context.Background()
	self := int64(1)
	activeProfile := domain.Profile{ProfileID: "p1", Count: 5, Limit: 1000, TargetAccountID: &self}
	doneProfile := activeProfile
	doneProfile.Done = true

	blocked := schedulableAccount(1, 5000, activeProfile)
	blocked.Blocked = true
	broke := schedulableAccount(2, 0, activeProfile)
	finished := schedulableAccount(3, 5000, doneProfile)

	suite.expectPage([]domain.Account{blocked, broke, finished})

	suite.scheduler.RunTick(ctx)

	suite.mockGateway.AssertNotCalled(suite.T(), "FilteredCatalog", mock.Anything, mock.Anything)
	suite.mockPurchaseSvc.AssertNotCalled(suite.T(), "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *SchedulerServiceTestSuite) TestRunTick_CatalogFailureMovesOn() {
	ctx := context.Background()
	self := int64(42)
	profile := domain.Profile{ProfileID: "p1", MinPrice: 1, MaxPrice: 100, Count: 1, Limit: 100, TargetAccountID: &self}
	suite.expectPage([]domain.Account{schedulableAccount(42, 5000, profile)})

	suite.mockGateway.On("FilteredCatalog", mock.Anything, mock.AnythingOfType("gateways.CatalogFilter")).
		Return(nil, assert.AnError).Once()

	suite.scheduler.RunTick(ctx)

	suite.mockPurchaseSvc.AssertNotCalled(suite.T(), "Execute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SchedulerServiceTestSuite) TestRunTick_InsufficientFundsStopsProfile() {
	ctx := context.Background()
	self := int64(42)
	profile := domain.Profile{
		ProfileID:       "p1",
		MinPrice:        1000,
		MaxPrice:        9000,
		MaxSupply:       10000,
		Count:           5,
		Limit:           100000,
		TargetAccountID: &self,
	}
	suite.expectPage([]domain.Account{schedulableAccount(42, 8000, profile)})

	items := []domain.CatalogItem{{ID: "g1", Price: 7000}, {ID: "g2", Price: 2000}}
	suite.mockGateway.On("FilteredCatalog", mock.Anything, mock.AnythingOfType("gateways.CatalogFilter")).
		Return(items, nil).Once()

	// A concurrent spend drained the balance between the tick snapshot
	// and the executor's own check.
	recipient := gateways.Recipient{AccountID: &self}
	suite.mockPurchaseSvc.On("Execute", mock.Anything, int64(42), items[0], recipient).
		Return(fmt.Errorf("%w: balance 0, item price 7000", apperrors.ErrInsufficientFunds)).Once()

	suite.scheduler.RunTick(ctx)

	// The whole profile stops; the cheaper item is not attempted.
	suite.mockPurchaseSvc.AssertNotCalled(suite.T(), "Execute", mock.Anything, int64(42), items[1], recipient)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "SaveProfileProgress", mock.Anything, mock.Anything, mock.Anything)
}

func TestSchedulerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerServiceTestSuite))
}
