package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/velmoney/velmo_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	// Soft-deleted accounts are reported as not found.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs, deleted ones included.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByUser retrieves the non-deleted accounts owned by a user,
	// ordered by account ID.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// FindPrimaryAccountByUser retrieves the primary account of a user.
	FindPrimaryAccountByUser(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. The insert serializes against
	// concurrent creations for the same owner; when the owner has no live
	// accounts yet the new account is forced primary. Returns the account
	// as persisted.
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)

	// SetPrimaryAccount atomically clears the owner's current primary flag
	// and sets it on the given account.
	SetPrimaryAccount(ctx context.Context, userID string, accountID string, now time.Time) error

	// SoftDeleteAccount marks the account deleted, sweeping any remaining
	// balance into the owner's primary account and recording the sweep as a
	// completed transfer, all in one transaction.
	SoftDeleteAccount(ctx context.Context, userID string, accountID string, now time.Time) error
}

// AccountTransactionSupport defines operations used inside settlement transactions
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks their rows within
	// a transaction. Rows are locked in ascending account ID order.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// DebitAccountInTx subtracts amount from the account balance within a
	// transaction. Returns ErrInsufficientFunds when the balance would go negative.
	DebitAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, userID string, now time.Time) error

	// CreditAccountInTx adds amount to the account balance within a transaction.
	CreditAccountInTx(ctx context.Context, tx pgx.Tx, accountID string, amount decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
