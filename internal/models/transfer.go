package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferType mirrors domain.TransferType at the storage layer.
type TransferType string

// TransferStatus mirrors domain.TransferStatus at the storage layer.
type TransferStatus string

// Transfer represents a row in the transfers table.
type Transfer struct {
	TransferID    string          `db:"transfer_id"`
	TransferType  TransferType    `db:"transfer_type"`
	Status        TransferStatus  `db:"transfer_status"`
	AccountFromID string          `db:"account_from_id"`
	AccountToID   string          `db:"account_to_id"`
	Amount        decimal.Decimal `db:"amount"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
	CompletedAt   *time.Time      `db:"completed_at"`
}
