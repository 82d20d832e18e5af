package services

import (
	"context"

	"github.com/velmoney/velmo_app/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account. The requesting user must
	// own the account.
	GetAccountByID(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error)

	// ListAccountsByUser retrieves the user's non-deleted accounts ordered by ID.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// GetPrimaryAccount retrieves the user's primary account. Its absence for
	// a live user is an integrity violation and is logged as such.
	GetPrimaryAccount(ctx context.Context, userID string) (*domain.Account, error)

	// GetAccountOwner resolves the user owning the given account.
	GetAccountOwner(ctx context.Context, accountID string) (*domain.User, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new account for the user. The user's first
	// account becomes primary and receives the welcome grant; later accounts
	// start empty and non-primary.
	CreateAccount(ctx context.Context, userID string) (*domain.Account, error)

	// SetPrimaryAccount makes the given account the user's primary one.
	SetPrimaryAccount(ctx context.Context, userID string, accountID string) error

	// SoftDeleteAccount closes a non-primary account, sweeping any remaining
	// balance into the primary account.
	SoftDeleteAccount(ctx context.Context, userID string, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
