package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a row in the accounts table.
type Account struct {
	AccountID string          `db:"account_id"`
	UserID    string          `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	IsPrimary bool            `db:"is_primary"`
	IsDeleted bool            `db:"is_deleted"`
	AuditFields
}
