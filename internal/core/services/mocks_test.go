package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/velmoney/velmo_app/internal/core/domain"
	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	var accounts map[string]domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).(map[string]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) FindPrimaryAccountByUser(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	args := m.Called(ctx, account)
	var saved *domain.Account
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.Account)
	}
	return saved, args.Error(1)
}

func (m *MockAccountRepository) SetPrimaryAccount(ctx context.Context, userID string, accountID string, now time.Time) error {
	args := m.Called(ctx, userID, accountID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SoftDeleteAccount(ctx context.Context, userID string, accountID string, now time.Time) error {
	args := m.Called(ctx, userID, accountID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	var accounts map[string]domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).(map[string]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) DebitAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, amount, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) CreditAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, amount, userID, now)
	return args.Error(0)
}

// --- Mock TransferRepository ---

type MockTransferRepository struct {
	mock.Mock
}

var _ portsrepo.TransferRepositoryFacade = (*MockTransferRepository)(nil)

func (m *MockTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID)
	var transfer *domain.Transfer
	if args.Get(0) != nil {
		transfer = args.Get(0).(*domain.Transfer)
	}
	return transfer, args.Error(1)
}

func (m *MockTransferRepository) ListTransfers(ctx context.Context, filter portsrepo.ListTransfersFilter) ([]domain.Transfer, string, error) {
	args := m.Called(ctx, filter)
	var transfers []domain.Transfer
	if args.Get(0) != nil {
		transfers = args.Get(0).([]domain.Transfer)
	}
	return transfers, args.String(1), args.Error(2)
}

func (m *MockTransferRepository) CreateTransfer(ctx context.Context, transfer domain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) SettleTransfer(ctx context.Context, transferID string, finalStatus domain.TransferStatus, actorUserID string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferID, finalStatus, actorUserID)
	var transfer *domain.Transfer
	if args.Get(0) != nil {
		transfer = args.Get(0).(*domain.Transfer)
	}
	return transfer, args.Error(1)
}

func (m *MockTransferRepository) CreateAndSettleTransfer(ctx context.Context, transfer domain.Transfer, finalStatus domain.TransferStatus) (*domain.Transfer, error) {
	args := m.Called(ctx, transfer, finalStatus)
	var settled *domain.Transfer
	if args.Get(0) != nil {
		settled = args.Get(0).(*domain.Transfer)
	}
	return settled, args.Error(1)
}

// --- Mock BalanceNotifier ---

type MockBalanceNotifier struct {
	mock.Mock
}

func (m *MockBalanceNotifier) NotifyBalanceChange(userID string, account domain.Account) {
	m.Called(userID, account)
}
