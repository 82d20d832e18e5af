package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/velmoney/velmo_app/internal/apperrors"
	"github.com/velmoney/velmo_app/internal/core/domain"
	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
	portssvc "github.com/velmoney/velmo_app/internal/core/ports/services"
	"github.com/velmoney/velmo_app/internal/dto"
	"github.com/velmoney/velmo_app/internal/middleware"
)

type transferService struct {
	transferRepo portsrepo.TransferRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
	notifier     portssvc.BalanceNotifier
}

// NewTransferService creates the settlement orchestrator.
func NewTransferService(
	transferRepo portsrepo.TransferRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	notifier portssvc.BalanceNotifier,
) portssvc.TransferSvcFacade {
	return &transferService{
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// SendTransfer immediately moves funds from the sender to the recipient.
// The insert and the settlement share one transaction, so a send is never
// observable in a pending state.
func (s *transferService) SendTransfer(ctx context.Context, senderUserID string, req dto.SendTransferRequest) (*domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.ToUserID == senderUserID {
		return nil, fmt.Errorf("%w: cannot send funds to yourself", apperrors.ErrSelfTransfer)
	}

	fromAccount, err := s.resolveOwnAccount(ctx, senderUserID, req.FromAccountID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.FindUserByID(ctx, req.ToUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrInvalidRecipient, req.ToUserID)
		}
		return nil, err
	}

	toAccount, err := s.resolveRecipientAccount(ctx, recipient.UserID, req.ToAccountID)
	if err != nil {
		return nil, err
	}
	if toAccount.AccountID == fromAccount.AccountID {
		return nil, apperrors.ErrSelfTransfer
	}

	now := time.Now().UTC()
	transfer := domain.Transfer{
		TransferID:    uuid.NewString(),
		Type:          domain.TransferTypeSend,
		Status:        domain.TransferStatusPending,
		AccountFromID: fromAccount.AccountID,
		AccountToID:   toAccount.AccountID,
		Amount:        req.Amount,
		CreatedAt:     now,
		CreatedBy:     senderUserID,
	}

	settled, err := s.transferRepo.CreateAndSettleTransfer(ctx, transfer, domain.TransferStatusApproved)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to settle send", slog.String("error", err.Error()), slog.String("transfer_id", transfer.TransferID))
		}
		return nil, err
	}

	logger.Info("Transfer sent", slog.String("transfer_id", settled.TransferID), slog.String("amount", settled.Amount.String()))
	s.notifySettled(ctx, settled)
	return settled, nil
}

// RequestTransfer records a pending obligation for the payer to approve.
// No balance moves until the payer settles it.
func (s *transferService) RequestTransfer(ctx context.Context, requesterUserID string, req dto.RequestTransferRequest) (*domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.FromUserID == requesterUserID {
		return nil, fmt.Errorf("%w: cannot request funds from yourself", apperrors.ErrSelfTransfer)
	}

	payer, err := s.userRepo.FindUserByID(ctx, req.FromUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrInvalidPayer, req.FromUserID)
		}
		return nil, err
	}

	fromAccount, err := s.accountRepo.FindPrimaryAccountByUser(ctx, payer.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("integrity violation: payer has no primary account", slog.String("user_id", payer.UserID))
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrInvalidPayer, payer.UserID)
		}
		return nil, err
	}

	toAccount, err := s.resolveOwnAccount(ctx, requesterUserID, req.ToAccountID)
	if err != nil {
		return nil, err
	}
	if toAccount.AccountID == fromAccount.AccountID {
		return nil, apperrors.ErrSelfTransfer
	}

	transfer := domain.Transfer{
		TransferID:    uuid.NewString(),
		Type:          domain.TransferTypeRequest,
		Status:        domain.TransferStatusPending,
		AccountFromID: fromAccount.AccountID,
		AccountToID:   toAccount.AccountID,
		Amount:        req.Amount,
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     requesterUserID,
	}

	if err := s.transferRepo.CreateTransfer(ctx, transfer); err != nil {
		logger.Error("Failed to create transfer request", slog.String("error", err.Error()), slog.String("transfer_id", transfer.TransferID))
		return nil, err
	}

	logger.Info("Transfer requested", slog.String("transfer_id", transfer.TransferID), slog.String("amount", transfer.Amount.String()))
	return &transfer, nil
}

// SettleTransfer lets the payer approve or reject a pending request. Only the
// owner of the debited account may settle; settlement happens at most once.
func (s *transferService) SettleTransfer(ctx context.Context, actorUserID string, transferID string, approve bool) (*domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	transfer, err := s.transferRepo.FindTransferByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if !transfer.CanSettle() {
		return nil, fmt.Errorf("%w: transfer %s is already %s", apperrors.ErrAlreadySettled, transferID, transfer.Status)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{transfer.AccountFromID})
	if err != nil {
		return nil, err
	}
	fromAccount, ok := accounts[transfer.AccountFromID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInvalidAccount, transfer.AccountFromID)
	}
	if fromAccount.UserID != actorUserID {
		return nil, fmt.Errorf("%w: only the payer may settle transfer %s", apperrors.ErrForbidden, transferID)
	}

	finalStatus := domain.TransferStatusRejected
	if approve {
		finalStatus = domain.TransferStatusApproved
	}

	settled, err := s.transferRepo.SettleTransfer(ctx, transferID, finalStatus, actorUserID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) && !errors.Is(err, apperrors.ErrAlreadySettled) {
			logger.Error("Failed to settle transfer", slog.String("error", err.Error()), slog.String("transfer_id", transferID))
		}
		return nil, err
	}

	logger.Info("Transfer settled", slog.String("transfer_id", transferID), slog.String("status", string(settled.Status)))
	if settled.Status == domain.TransferStatusApproved {
		s.notifySettled(ctx, settled)
	}
	return settled, nil
}

// MoveBetweenOwnAccounts shifts funds between two accounts of the same owner.
// The destination must be one of the owner's secondary accounts.
func (s *transferService) MoveBetweenOwnAccounts(ctx context.Context, userID string, req dto.MoveFundsRequest) (*domain.Transfer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, apperrors.ErrSelfTransfer
	}

	fromAccount, err := s.resolveOwnAccount(ctx, userID, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	toAccount, err := s.resolveOwnAccount(ctx, userID, req.ToAccountID)
	if err != nil {
		return nil, err
	}
	if toAccount.IsPrimary {
		return nil, fmt.Errorf("%w: funds move to the primary account only when an account is deleted", apperrors.ErrInvalidRecipient)
	}

	now := time.Now().UTC()
	transfer := domain.Transfer{
		TransferID:    uuid.NewString(),
		Type:          domain.TransferTypeAccountMove,
		Status:        domain.TransferStatusPending,
		AccountFromID: fromAccount.AccountID,
		AccountToID:   toAccount.AccountID,
		Amount:        req.Amount,
		CreatedAt:     now,
		CreatedBy:     userID,
	}

	settled, err := s.transferRepo.CreateAndSettleTransfer(ctx, transfer, domain.TransferStatusApproved)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to move funds", slog.String("error", err.Error()), slog.String("transfer_id", transfer.TransferID))
		}
		return nil, err
	}

	logger.Info("Funds moved between accounts", slog.String("transfer_id", settled.TransferID))
	s.notifySettled(ctx, settled)
	return settled, nil
}

// GetTransfer retrieves a transfer with participant usernames resolved.
// Only a participant may see it.
func (s *transferService) GetTransfer(ctx context.Context, transferID string, requestingUserID string) (*dto.TransferDetails, error) {
	transfer, err := s.transferRepo.FindTransferByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{transfer.AccountFromID, transfer.AccountToID})
	if err != nil {
		return nil, err
	}
	fromAccount := accounts[transfer.AccountFromID]
	toAccount := accounts[transfer.AccountToID]
	if fromAccount.UserID != requestingUserID && toAccount.UserID != requestingUserID {
		return nil, fmt.Errorf("%w: transfer %s", apperrors.ErrForbidden, transferID)
	}

	details := s.buildDetails(ctx, []domain.Transfer{*transfer}, accounts)
	return &details[0], nil
}

// ListTransfers retrieves the transfer history of one of the requesting
// user's accounts. An empty account ID means the primary account; empty
// filters mean all types and statuses.
func (s *transferService) ListTransfers(ctx context.Context, requestingUserID string, req dto.ListTransfersRequest) (*dto.ListTransfersResponse, error) {
	var account *domain.Account
	var err error
	if req.AccountID == "" {
		account, err = s.accountRepo.FindPrimaryAccountByUser(ctx, requestingUserID)
	} else {
		account, err = s.resolveOwnAccount(ctx, requestingUserID, req.AccountID)
	}
	if err != nil {
		return nil, err
	}

	filter := portsrepo.ListTransfersFilter{
		AccountID: account.AccountID,
		Limit:     req.Limit,
		NextToken: req.NextToken,
	}
	if req.Type != "" {
		t := domain.TransferType(req.Type)
		filter.Type = &t
	}
	if req.Status != "" {
		st := domain.TransferStatus(req.Status)
		filter.Status = &st
	}

	transfers, nextToken, err := s.transferRepo.ListTransfers(ctx, filter)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(transfers)*2)
	seen := map[string]bool{}
	for _, t := range transfers {
		for _, id := range []string{t.AccountFromID, t.AccountToID} {
			if !seen[id] {
				seen[id] = true
				accountIDs = append(accountIDs, id)
			}
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	return &dto.ListTransfersResponse{
		Transfers: s.buildDetails(ctx, transfers, accounts),
		NextToken: nextToken,
	}, nil
}

// resolveOwnAccount returns the caller's account: the primary one when
// accountID is empty, otherwise the named account after an ownership check.
func (s *transferService) resolveOwnAccount(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	if accountID == "" {
		account, err := s.accountRepo.FindPrimaryAccountByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				middleware.GetLoggerFromCtx(ctx).Error("integrity violation: user has no primary account", slog.String("user_id", userID))
			}
			return nil, err
		}
		return account, nil
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: account %s does not belong to the requesting user", apperrors.ErrForbidden, accountID)
	}
	return account, nil
}

// resolveRecipientAccount returns the destination account for a send: the
// recipient's primary account when accountID is empty, otherwise the named
// account, which must belong to the recipient and be live.
func (s *transferService) resolveRecipientAccount(ctx context.Context, recipientUserID string, accountID string) (*domain.Account, error) {
	if accountID == "" {
		account, err := s.accountRepo.FindPrimaryAccountByUser(ctx, recipientUserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				middleware.GetLoggerFromCtx(ctx).Error("integrity violation: recipient has no primary account", slog.String("user_id", recipientUserID))
				return nil, fmt.Errorf("%w: user %s", apperrors.ErrInvalidRecipient, recipientUserID)
			}
			return nil, err
		}
		return account, nil
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrInvalidRecipient, accountID)
		}
		return nil, err
	}
	if account.UserID != recipientUserID {
		return nil, fmt.Errorf("%w: account %s does not belong to user %s", apperrors.ErrInvalidRecipient, accountID, recipientUserID)
	}
	return account, nil
}

// buildDetails assembles the human-facing transfer views, resolving the
// participant usernames. A participant that cannot be resolved (for example a
// since-deleted user) leaves the username empty rather than failing the read.
func (s *transferService) buildDetails(ctx context.Context, transfers []domain.Transfer, accounts map[string]domain.Account) []dto.TransferDetails {
	logger := middleware.GetLoggerFromCtx(ctx)

	userCache := map[string]*domain.User{}
	lookup := func(accountID string) *domain.User {
		account, ok := accounts[accountID]
		if !ok {
			return nil
		}
		if user, ok := userCache[account.UserID]; ok {
			return user
		}
		user, err := s.userRepo.FindUserByID(ctx, account.UserID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Failed to resolve transfer participant", slog.String("user_id", account.UserID), slog.String("error", err.Error()))
			}
			user = nil
		}
		userCache[account.UserID] = user
		return user
	}

	details := make([]dto.TransferDetails, len(transfers))
	for i := range transfers {
		t := transfers[i]
		details[i] = dto.NewTransferDetails(&t, lookup(t.AccountFromID), lookup(t.AccountToID))
	}
	return details
}

// notifySettled pushes the post-settlement balances of both sides to the
// notifier. Failures here must not fail the settlement.
func (s *transferService) notifySettled(ctx context.Context, transfer *domain.Transfer) {
	if s.notifier == nil {
		return
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{transfer.AccountFromID, transfer.AccountToID})
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to load balances for notification", slog.String("transfer_id", transfer.TransferID), slog.String("error", err.Error()))
		return
	}
	for _, account := range accounts {
		s.notifier.NotifyBalanceChange(account.UserID, account)
	}
}
