package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/velmoney/velmo_app/internal/apperrors"
	"github.com/velmoney/velmo_app/internal/core/domain"
)

func TestTransferStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.TransferStatus
		to   domain.TransferStatus
		want bool
	}{
		{"pending to approved", domain.TransferStatusPending, domain.TransferStatusApproved, true},
		{"pending to rejected", domain.TransferStatusPending, domain.TransferStatusRejected, true},
		{"pending to pending", domain.TransferStatusPending, domain.TransferStatusPending, false},
		{"approved is terminal", domain.TransferStatusApproved, domain.TransferStatusRejected, false},
		{"rejected is terminal", domain.TransferStatusRejected, domain.TransferStatusApproved, false},
		{"approved cannot reopen", domain.TransferStatusApproved, domain.TransferStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransferStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.TransferStatusPending.IsTerminal())
	assert.True(t, domain.TransferStatusApproved.IsTerminal())
	assert.True(t, domain.TransferStatusRejected.IsTerminal())
}

func TestTransfer_CanSettle(t *testing.T) {
	now := time.Now()

	pending := domain.Transfer{Status: domain.TransferStatusPending}
	assert.True(t, pending.CanSettle())

	settled := domain.Transfer{Status: domain.TransferStatusApproved, CompletedAt: &now}
	assert.False(t, settled.CanSettle())
	assert.True(t, settled.IsSettled())

	rejected := domain.Transfer{Status: domain.TransferStatusRejected, CompletedAt: &now}
	assert.False(t, rejected.CanSettle())
}

func TestTransfer_Validate(t *testing.T) {
	valid := domain.Transfer{
		TransferID:    "tr-1",
		Type:          domain.TransferTypeSend,
		Status:        domain.TransferStatusPending,
		AccountFromID: "acc-1",
		AccountToID:   "acc-2",
		Amount:        decimal.NewFromFloat(50.00),
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Transfer)
		wantErr error
	}{
		{"valid transfer", func(tr *domain.Transfer) {}, nil},
		{"unknown type", func(tr *domain.Transfer) { tr.Type = "WIRE" }, apperrors.ErrValidation},
		{"unknown status", func(tr *domain.Transfer) { tr.Status = "DONE" }, apperrors.ErrValidation},
		{"same account both sides", func(tr *domain.Transfer) { tr.AccountToID = tr.AccountFromID }, apperrors.ErrSelfTransfer},
		{"zero amount", func(tr *domain.Transfer) { tr.Amount = decimal.Zero }, apperrors.ErrInvalidAmount},
		{"negative amount", func(tr *domain.Transfer) { tr.Amount = decimal.NewFromInt(-10) }, apperrors.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := valid
			tt.mutate(&tr)
			err := tr.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAccount_CanPay(t *testing.T) {
	acc := domain.Account{Balance: decimal.NewFromFloat(100.00)}
	assert.True(t, acc.CanPay(decimal.NewFromFloat(100.00)))
	assert.True(t, acc.CanPay(decimal.NewFromFloat(99.99)))
	assert.False(t, acc.CanPay(decimal.NewFromFloat(100.01)))

	deleted := domain.Account{Balance: decimal.NewFromFloat(100.00), IsDeleted: true}
	assert.False(t, deleted.CanPay(decimal.NewFromFloat(1)))
	assert.False(t, deleted.CanReceive())
}
