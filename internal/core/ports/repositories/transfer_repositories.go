package repositories

import (
	"context"

	"github.com/velmoney/velmo_app/internal/core/domain"
)

// ListTransfersFilter narrows a transfer listing. AccountID is required;
// a nil Type or Status means no filtering on that dimension.
type ListTransfersFilter struct {
	AccountID string
	Type      *domain.TransferType
	Status    *domain.TransferStatus
	Limit     int
	NextToken string
}

// TransferReader defines read operations for the transfer ledger
type TransferReader interface {
	// FindTransferByID retrieves a transfer by its unique identifier.
	FindTransferByID(ctx context.Context, transferID string) (*domain.Transfer, error)

	// ListTransfers retrieves transfers where the account participates on
	// either side, newest first (created_at DESC, transfer_id DESC), with
	// cursor pagination. Returns the page and the next page token ("" when
	// there are no further results).
	ListTransfers(ctx context.Context, filter ListTransfersFilter) ([]domain.Transfer, string, error)
}

// TransferWriter defines write operations for the transfer ledger
type TransferWriter interface {
	// CreateTransfer persists a new pending transfer.
	CreateTransfer(ctx context.Context, transfer domain.Transfer) error

	// SettleTransfer moves a pending transfer to the given terminal status,
	// applying the balance movement when the status is approved. It settles
	// at most once: a transfer that already reached a terminal state yields
	// ErrAlreadySettled. Returns the transfer as persisted.
	SettleTransfer(ctx context.Context, transferID string, finalStatus domain.TransferStatus, actorUserID string) (*domain.Transfer, error)

	// CreateAndSettleTransfer persists the transfer and settles it to the
	// given terminal status inside a single transaction. Used for sends and
	// own-account moves, which never exist in a pending state.
	CreateAndSettleTransfer(ctx context.Context, transfer domain.Transfer, finalStatus domain.TransferStatus) (*domain.Transfer, error)
}

// TransferRepositoryFacade combines all transfer-related repository interfaces
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}

// TransferRepositoryWithTx extends TransferRepositoryFacade with transaction capabilities
type TransferRepositoryWithTx interface {
	TransferRepositoryFacade
	TransactionManager
}
