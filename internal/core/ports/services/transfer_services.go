package services

import (
	"context"

	"github.com/velmoney/velmo_app/internal/core/domain"
	"github.com/velmoney/velmo_app/internal/dto"
)

// BalanceNotifier pushes balance changes to connected clients. Implemented by
// the websocket hub; a no-op implementation is acceptable.
type BalanceNotifier interface {
	NotifyBalanceChange(userID string, account domain.Account)
}

// TransferReaderSvc defines read operations over the transfer ledger
type TransferReaderSvc interface {
	// GetTransfer retrieves a transfer with participant usernames resolved.
	// Only a participant (owner of either side) may see it.
	GetTransfer(ctx context.Context, transferID string, requestingUserID string) (*dto.TransferDetails, error)

	// ListTransfers retrieves the transfer history of one of the requesting
	// user's accounts, optionally filtered by type and status.
	ListTransfers(ctx context.Context, requestingUserID string, req dto.ListTransfersRequest) (*dto.ListTransfersResponse, error)
}

// TransferWriterSvc defines the settlement operations
type TransferWriterSvc interface {
	// SendTransfer immediately moves funds from the sender's account to the
	// recipient. The transfer is recorded approved and completed.
	SendTransfer(ctx context.Context, senderUserID string, req dto.SendTransferRequest) (*domain.Transfer, error)

	// RequestTransfer records a pending request for the payer to approve.
	// No balance moves until settlement.
	RequestTransfer(ctx context.Context, requesterUserID string, req dto.RequestTransferRequest) (*domain.Transfer, error)

	// SettleTransfer lets the payer approve or reject a pending request.
	SettleTransfer(ctx context.Context, actorUserID string, transferID string, approve bool) (*domain.Transfer, error)

	// MoveBetweenOwnAccounts shifts funds between two accounts of the same
	// owner, settled immediately.
	MoveBetweenOwnAccounts(ctx context.Context, userID string, req dto.MoveFundsRequest) (*domain.Transfer, error)
}

// TransferSvcFacade combines all transfer-related service interfaces
type TransferSvcFacade interface {
	TransferReaderSvc
	TransferWriterSvc
}
