package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/velmoney/velmo_app/internal/apperrors"
)

// TransferType distinguishes how a transfer was initiated.
type TransferType string

const (
	// TransferTypeSend is an immediate push of funds to another user.
	TransferTypeSend TransferType = "SEND"
	// TransferTypeRequest asks another user to pay; it stays pending until
	// the payer approves or rejects it.
	TransferTypeRequest TransferType = "REQUEST"
	// TransferTypeAccountMove shifts funds between two accounts of the same
	// owner, including the sweep performed when an account is deleted.
	TransferTypeAccountMove TransferType = "ACCOUNT_MOVE"
)

// IsValid reports whether t is one of the known transfer types.
func (t TransferType) IsValid() bool {
	switch t {
	case TransferTypeSend, TransferTypeRequest, TransferTypeAccountMove:
		return true
	}
	return false
}

// TransferStatus is the lifecycle state of a transfer. The state machine is
// closed: PENDING may move to APPROVED or REJECTED, both of which are terminal.
type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "PENDING"
	TransferStatusApproved TransferStatus = "APPROVED"
	TransferStatusRejected TransferStatus = "REJECTED"
)

// IsValid reports whether s is one of the known transfer statuses.
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusApproved, TransferStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether s permits no further transitions.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusApproved || s == TransferStatusRejected
}

// CanTransitionTo reports whether the status may move from s to next.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	return s == TransferStatusPending && next.IsTerminal()
}

// Transfer represents one movement of funds between two accounts.
type Transfer struct {
	TransferID    string          `json:"transferID"` // Primary Key (UUID)
	Type          TransferType    `json:"transferType"`
	Status        TransferStatus  `json:"transferStatus"`
	AccountFromID string          `json:"accountFromID"` // Debited side
	AccountToID   string          `json:"accountToID"`   // Credited side
	Amount        decimal.Decimal `json:"amount"`        // Strictly positive
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`             // UserID of the initiator
	CompletedAt   *time.Time      `json:"completedAt,omitempty"` // Set iff Status is terminal
}

// IsSettled reports whether the transfer has durably reached a terminal state.
func (t Transfer) IsSettled() bool {
	return t.CompletedAt != nil
}

// CanSettle reports whether the transfer may still be moved to a terminal status.
func (t Transfer) CanSettle() bool {
	return t.Status == TransferStatusPending && t.CompletedAt == nil
}

// Validate checks the structural invariants that hold for every transfer
// regardless of status.
func (t Transfer) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: unknown transfer type %q", apperrors.ErrValidation, t.Type)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: unknown transfer status %q", apperrors.ErrValidation, t.Status)
	}
	if t.AccountFromID == t.AccountToID {
		return apperrors.ErrSelfTransfer
	}
	if !t.Amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	return nil
}
