package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/velmoney/velmo_app/internal/core/domain"
)

// SendTransferRequest defines the data for an immediate send.
// ToAccountID is optional; when empty the recipient's primary account is used.
type SendTransferRequest struct {
	ToUserID      string          `json:"toUserID" binding:"required"`
	ToAccountID   string          `json:"toAccountID"`
	FromAccountID string          `json:"fromAccountID"` // Optional; defaults to the sender's primary account
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// RequestTransferRequest defines the data for a payment request.
type RequestTransferRequest struct {
	FromUserID  string          `json:"fromUserID" binding:"required"` // The payer being asked
	ToAccountID string          `json:"toAccountID"`                   // Optional; defaults to requester's primary account
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// SettleTransferRequest carries the payer's decision on a pending request.
type SettleTransferRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// Approve reports whether the request approves the transfer.
func (r SettleTransferRequest) Approve() bool {
	return r.Action == "approve"
}

// MoveFundsRequest defines a move between two accounts of the same owner.
type MoveFundsRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// ListTransfersRequest defines query parameters for listing transfer history.
// AccountID is optional; when empty the caller's primary account is used.
type ListTransfersRequest struct {
	AccountID string `form:"accountID"`
	Type      string `form:"type" binding:"omitempty,oneof=SEND REQUEST ACCOUNT_MOVE"`
	Status    string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// TransferResponse defines the raw view of a transfer.
type TransferResponse struct {
	TransferID    string                `json:"transferID"`
	Type          domain.TransferType   `json:"transferType"`
	Status        domain.TransferStatus `json:"transferStatus"`
	AccountFromID string                `json:"accountFromID"`
	AccountToID   string                `json:"accountToID"`
	Amount        decimal.Decimal       `json:"amount"`
	CreatedAt     time.Time             `json:"createdAt"`
	CompletedAt   *time.Time            `json:"completedAt,omitempty"`
}

// ToTransferResponse converts a domain.Transfer to TransferResponse DTO
func ToTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		TransferID:    t.TransferID,
		Type:          t.Type,
		Status:        t.Status,
		AccountFromID: t.AccountFromID,
		AccountToID:   t.AccountToID,
		Amount:        t.Amount,
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
	}
}

// TransferDetails is the human-facing view of a transfer: participant
// usernames plus display labels for type and status.
type TransferDetails struct {
	TransferResponse
	FromUsername string `json:"fromUsername"`
	ToUsername   string `json:"toUsername"`
	TypeLabel    string `json:"typeLabel"`
	StatusLabel  string `json:"statusLabel"`
}

// NewTransferDetails assembles the details view from a transfer and the
// resolved participant users.
func NewTransferDetails(t *domain.Transfer, fromUser, toUser *domain.User) TransferDetails {
	d := TransferDetails{
		TransferResponse: ToTransferResponse(t),
		TypeLabel:        transferTypeLabel(t.Type),
		StatusLabel:      transferStatusLabel(t.Status),
	}
	if fromUser != nil {
		d.FromUsername = fromUser.Username
	}
	if toUser != nil {
		d.ToUsername = toUser.Username
	}
	return d
}

func transferTypeLabel(t domain.TransferType) string {
	switch t {
	case domain.TransferTypeSend:
		return "Send"
	case domain.TransferTypeRequest:
		return "Request"
	case domain.TransferTypeAccountMove:
		return "Account Move"
	}
	return string(t)
}

func transferStatusLabel(s domain.TransferStatus) string {
	switch s {
	case domain.TransferStatusPending:
		return "Pending"
	case domain.TransferStatusApproved:
		return "Approved"
	case domain.TransferStatusRejected:
		return "Rejected"
	}
	return string(s)
}

// ListTransfersResponse wraps a page of transfer history.
type ListTransfersResponse struct {
	Transfers []TransferDetails `json:"transfers"`
	NextToken string            `json:"nextToken,omitempty"`
}
