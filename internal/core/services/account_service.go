package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velmoney/velmo_app/internal/apperrors"
	"github.com/velmoney/velmo_app/internal/core/domain"
	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
	portssvc "github.com/velmoney/velmo_app/internal/core/ports/services"
	"github.com/velmoney/velmo_app/internal/middleware"
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewAccountService creates the account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, userRepo: userRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves an account the requesting user owns.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: account %s does not belong to the requesting user", apperrors.ErrForbidden, accountID)
	}
	return account, nil
}

// ListAccountsByUser retrieves the user's non-deleted accounts ordered by ID.
func (s *accountService) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// GetPrimaryAccount retrieves the user's primary account. A live user without
// a primary account means the primary-uniqueness invariant was broken; that is
// surfaced as not-found but logged at error level.
func (s *accountService) GetPrimaryAccount(ctx context.Context, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindPrimaryAccountByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("integrity violation: user has no primary account", slog.String("user_id", userID))
			return nil, fmt.Errorf("%w: user %s has no primary account", apperrors.ErrNotFound, userID)
		}
		logger.Error("Failed to find primary account", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}
	return account, nil
}

// GetAccountOwner resolves the user owning the given account.
func (s *accountService) GetAccountOwner(ctx context.Context, accountID string) (*domain.User, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindUserByID(ctx, account.UserID)
}

// CreateAccount opens a new account for the user. The repository forces the
// owner's first account primary; later accounts start empty and non-primary.
func (s *accountService) CreateAccount(ctx context.Context, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Balance:   decimal.Zero,
		IsPrimary: false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", saved.AccountID), slog.Bool("is_primary", saved.IsPrimary))
	return saved, nil
}

// SetPrimaryAccount makes the given account the user's primary one.
func (s *accountService) SetPrimaryAccount(ctx context.Context, userID string, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.SetPrimaryAccount(ctx, userID, accountID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidAccount) {
			logger.Error("Failed to set primary account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Primary account changed", slog.String("account_id", accountID))
	return nil
}

// SoftDeleteAccount closes a non-primary account, sweeping any remaining
// balance into the primary account.
func (s *accountService) SoftDeleteAccount(ctx context.Context, userID string, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.SoftDeleteAccount(ctx, userID, accountID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to soft delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}
