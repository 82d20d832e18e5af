package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/velmoney/velmo_app/internal/core/domain"
)

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID string          `json:"accountID"`
	UserID    string          `json:"userID"`
	Balance   decimal.Decimal `json:"balance"`
	IsPrimary bool            `json:"isPrimary"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		UserID:    acc.UserID,
		Balance:   acc.Balance,
		IsPrimary: acc.IsPrimary,
		CreatedAt: acc.CreatedAt,
	}
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountResponse converts a slice of domain.Account to ListAccountsResponse
func ToListAccountResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
	IsPrimary bool            `json:"isPrimary"`
}

// ToBalanceResponse converts a domain.Account to BalanceResponse DTO
func ToBalanceResponse(acc *domain.Account) BalanceResponse {
	return BalanceResponse{
		AccountID: acc.AccountID,
		Balance:   acc.Balance,
		IsPrimary: acc.IsPrimary,
	}
}
