package services_test

import (
	"context"

	"github.com/StarGiftLabs/star_gifting_app/internal/core/domain"
	"github.com/StarGiftLabs/star_gifting_app/internal/core/ports/gateways"
	portsrepo "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/repositories"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AggregateAccountStats(ctx context.Context) (*portsrepo.AccountStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.AccountStats), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

// expectTx wires the transaction manager calls for one successful
// transaction. The tx handle is nil; repositories under mock ignore it.
func (m *MockAccountRepository) expectTx() {
	m.On("Begin", mock.Anything).Return(nil, nil)
	m.On("Commit", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// --- Mock OperatorRepository ---

type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) SeedOperator(ctx context.Context, rate decimal.Decimal) error {
	return m.Called(ctx, rate).Error(0)
}

func (m *MockOperatorRepository) GetOperator(ctx context.Context) (*domain.OperatorLedger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperatorLedger), args.Error(1)
}

func (m *MockOperatorRepository) UpdateOperator(ctx context.Context, ledger domain.OperatorLedger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockOperatorRepository) GetOperatorForUpdate(ctx context.Context, tx pgx.Tx) (*domain.OperatorLedger, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperatorLedger), args.Error(1)
}

func (m *MockOperatorRepository) UpdateOperatorInTx(ctx context.Context, tx pgx.Tx, ledger domain.OperatorLedger) error {
	args := m.Called(ctx, tx, ledger)
	return args.Error(0)
}

var _ portsrepo.OperatorRepository = (*MockOperatorRepository)(nil)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, accountID int64, entryType domain.EntryType, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, entryType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

var _ portsrepo.JournalRepository = (*MockJournalRepository)(nil)

// --- Mock PaymentGateway ---

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) ListTransactions(ctx context.Context, offset, limit int) ([]domain.StarTransaction, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StarTransaction), args.Error(1)
}

func (m *MockPaymentGateway) ReverseTransaction(ctx context.Context, accountID int64, transactionID string) error {
	args := m.Called(ctx, accountID, transactionID)
	return args.Error(0)
}

func (m *MockPaymentGateway) SendItem(ctx context.Context, itemID string, recipient gateways.Recipient) error {
	args := m.Called(ctx, itemID, recipient)
	return args.Error(0)
}

func (m *MockPaymentGateway) FilteredCatalog(ctx context.Context, filter gateways.CatalogFilter) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}

var _ gateways.PaymentGateway = (*MockPaymentGateway)(nil)

// --- Mock LedgerSvc ---

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Credit(ctx context.Context, accountID int64, amount int64) (int64, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, accountID int64, amount int64) (int64, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) ApplyCommission(ctx context.Context, accountID int64, gross int64) (int64, int64, error) {
	args := m.Called(ctx, accountID, gross)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) WithdrawCommission(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

func (m *MockLedgerService) ChargePurchase(ctx context.Context, accountID int64, itemID string, price int64) (int64, int64, error) {
	args := m.Called(ctx, accountID, itemID, price)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) SettleRefund(ctx context.Context, accountID int64, refunded int64) (int64, error) {
	args := m.Called(ctx, accountID, refunded)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)

// --- Mock AccountSvc ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) EnsureAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) SetBlocked(ctx context.Context, accountID int64, blocked bool) error {
	args := m.Called(ctx, accountID, blocked)
	return args.Error(0)
}

func (m *MockAccountService) SetLanguage(ctx context.Context, accountID int64, language string) error {
	args := m.Called(ctx, accountID, language)
	return args.Error(0)
}

func (m *MockAccountService) AddProfile(ctx context.Context, accountID int64, req dto.ProfileRequest) (*domain.Profile, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, accountID int64, profileID string, req dto.ProfileRequest) (*domain.Profile, error) {
	args := m.Called(ctx, accountID, profileID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockAccountService) RemoveProfile(ctx context.Context, accountID int64, profileID string) error {
	args := m.Called(ctx, accountID, profileID)
	return args.Error(0)
}

func (m *MockAccountService) ResetProfile(ctx context.Context, accountID int64, profileID string) (*domain.Profile, error) {
	args := m.Called(ctx, accountID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockAccountService) SaveProfileProgress(ctx context.Context, accountID int64, profile domain.Profile) error {
	args := m.Called(ctx, accountID, profile)
	return args.Error(0)
}

var _ portssvc.AccountSvc = (*MockAccountService)(nil)

// --- Mock PurchaseSvc ---

type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) Execute(ctx context.Context, accountID int64, item domain.CatalogItem, recipient gateways.Recipient) error {
	args := m.Called(ctx, accountID, item, recipient)
	return args.Error(0)
}

var _ portssvc.PurchaseSvc = (*MockPurchaseService)(nil)

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ProfileCompleted(ctx context.Context, accountID int64, profile domain.Profile) {
	m.Called(ctx, accountID, profile)
}

var _ portssvc.Notifier = (*MockNotifier)(nil)
