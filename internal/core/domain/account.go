package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a monetary account owned by a user.
// This is the primary representation used by services.
type Account struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	UserID    string          `json:"userID"`    // FK -> users.user_id (NON-NULL)
	Balance   decimal.Decimal `json:"balance"`   // Never negative
	IsPrimary bool            `json:"isPrimary"` // Exactly one per live owner
	IsDeleted bool            `json:"isDeleted"` // Soft delete flag
	AuditFields
}

// CanReceive reports whether the account may be credited.
func (a Account) CanReceive() bool {
	return !a.IsDeleted
}

// CanPay reports whether the account may be debited by the given amount.
func (a Account) CanPay(amount decimal.Decimal) bool {
	return !a.IsDeleted && a.Balance.GreaterThanOrEqual(amount)
}
