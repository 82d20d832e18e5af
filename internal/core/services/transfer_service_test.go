package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/velmoney/velmo_app/internal/apperrors"
	"github.com/velmoney/velmo_app/internal/core/domain"
	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
	portssvc "github.com/velmoney/velmo_app/internal/core/ports/services"
	"github.com/velmoney/velmo_app/internal/core/services"
	"github.com/velmoney/velmo_app/internal/dto"
)

type TransferServiceTestSuite struct {
	suite.Suite
	mockTransferRepo *MockTransferRepository
	mockAccountRepo  *MockAccountRepository
	mockUserRepo     *MockUserRepository
	mockNotifier     *MockBalanceNotifier
	service          portssvc.TransferSvcFacade

	sender        domain.User
	recipient     domain.User
	senderAcct    domain.Account
	recipientAcct domain.Account
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockTransferRepo = new(MockTransferRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockNotifier = new(MockBalanceNotifier)
	suite.service = services.NewTransferService(suite.mockTransferRepo, suite.mockAccountRepo, suite.mockUserRepo, suite.mockNotifier)

	suite.sender = domain.User{UserID: uuid.NewString(), Username: "alice"}
	suite.recipient = domain.User{UserID: uuid.NewString(), Username: "bob"}
	suite.senderAcct = domain.Account{
		AccountID: uuid.NewString(),
		UserID:    suite.sender.UserID,
		Balance:   decimal.NewFromInt(1000),
		IsPrimary: true,
	}
	suite.recipientAcct = domain.Account{
		AccountID: uuid.NewString(),
		UserID:    suite.recipient.UserID,
		Balance:   decimal.NewFromInt(1000),
		IsPrimary: true,
	}
}

func (suite *TransferServiceTestSuite) assertAllExpectations() {
	suite.mockTransferRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

// expectSettlementNotifications wires the post-settlement balance lookup and
// the notifier calls for both sides of the given transfer.
func (suite *TransferServiceTestSuite) expectSettlementNotifications(ctx context.Context, from, to domain.Account) {
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{from.AccountID, to.AccountID}).
		Return(map[string]domain.Account{from.AccountID: from, to.AccountID: to}, nil).Once()
	suite.mockNotifier.On("NotifyBalanceChange", from.UserID, from).Once()
	suite.mockNotifier.On("NotifyBalanceChange", to.UserID, to).Once()
}

// --- SendTransfer ---

func (suite *TransferServiceTestSuite) TestSendTransfer_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(50)
	req := dto.SendTransferRequest{ToUserID: suite.recipient.UserID, Amount: amount}

	now := time.Now().UTC()
	settled := domain.Transfer{
		TransferID:    uuid.NewString(),
		Type:          domain.TransferTypeSend,
		Status:        domain.TransferStatusApproved,
		AccountFromID: suite.senderAcct.AccountID,
		AccountToID:   suite.recipientAcct.AccountID,
		Amount:        amount,
		CreatedAt:     now,
		CreatedBy:     suite.sender.UserID,
		CompletedAt:   &now,
	}

	suite.mockAccountRepo.On("FindPrimaryAccountByUser", ctx, suite.sender.UserID).Return(&suite.senderAcct, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.recipient.UserID).Return(&suite.recipient, nil).Once()
	suite.mockAccountRepo.On("FindPrimaryAccountByUser", ctx, suite.recipient.UserID).Return(&suite.recipientAcct, nil).Once()
	suite.mockTransferRepo.On("CreateAndSettleTransfer", ctx, mock.AnythingOfType("domain.Transfer"), domain.TransferStatusApproved).
		Return(&settled, nil).Once().
		Run(func(args mock.Arguments) {
			transfer := args.Get(1).(domain.Transfer)
			suite.Equal(domain.TransferTypeSend, transfer.Type)
			suite.Equal(domain.TransferStatusPending, transfer.Status)
			suite.Equal(suite.senderAcct.AccountID, transfer.AccountFromID)
			suite.Equal(suite.recipientAcct.AccountID, transfer.AccountToID)
			suite.True(amount.Equal(transfer.Amount))
			suite.Equal(suite.sender.UserID, transfer.CreatedBy)
		})
	suite.expectSettlementNotifications(ctx, suite.senderAcct, suite.recipientAcct)

	result, err := suite.service.SendTransfer(ctx, suite.sender.UserID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.TransferStatusApproved, result.Status)
	suite.Require().NotNil(result.CompletedAt)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestSendTransfer_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.SendTransferRequest{ToUserID: suite.recipient.UserID, Amount: decimal.Zero}

	result, err := suite.service.SendTransfer(ctx, suite.sender.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "CreateAndSettleTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestSendTransfer_ToSelf() {
	ctx := context.Background()
	req := dto.SendTransferRequest{ToUserID: suite.sender.UserID, Amount: decimal.NewFromInt(10)}

	result, err := suite.service.SendTransfer(ctx, suite.sender.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrSelfTransfer)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "CreateAndSettleTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestSendTransfer_RecipientNotFound() {
	ctx := context.Background()
	req := dto.SendTransferRequest{ToUserID: suite.recipient.UserID, Amount: decimal.NewFromInt(10)}

	suite.mockAccountRepo.On("FindPrimaryAccountByUser", ctx, suite.sender.UserID).Return(&suite.senderAcct, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.recipient.UserID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.SendTransfer(ctx, suite.sender.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidRecipient)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestSendTransfer_ForeignFromAccount() {
	ctx := context.Background()
	foreignAcct := domain.Account{AccountID: uuid.NewString(), UserID: suite.recipient.UserID}
	req := dto.SendTransferRequest{
		ToUserID:      suite.recipient.UserID,
		FromAccountID: foreignAcct.AccountID,
		Amount:        decimal.NewFromInt(10),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, foreignAcct.AccountID).Return(&foreignAcct, nil).Once()

	result, err := suite.service.SendTransfer(ctx, suite.sender.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestSendTransfer_InsufficientFunds() {
	ctx := context.Background()
	req := dto.SendTransferRequest{ToUserID: suite.recipient.UserID, Amount: decimal.NewFromInt(5000)}

	suite.mockAccountRepo.On("FindPrimaryAccountByUser", ctx, suite.sender.UserID).Return(&suite.senderAcct, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.recipient.UserID).Return(&suite.recipient, nil).Once()
	suite.mockAccountRepo.On("FindPrimaryAccountByUser", ctx, suite.recipient.UserID).Return(&suite.recipientAcct, nil).Once()
	suite.mockTransferRepo.On("CreateAndSettleTransfer", ctx, mock.AnythingOfType("domain.Transfer"), domain.TransferStatusApproved).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	result, err := suite.service.SendTransfer(ctx, suite.sender.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	// No balances moved, so nobody gets notified.
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyBalanceChange", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

// --- RequestTransfer ---

func (suite *TransferServiceTestSuite) TestRequestTransfer_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(25)
	// bob requests 25 from alice
	req := dto.RequestTransferRequest{FromUserID: suite.sender.UserID, Amount: amount}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.sender.UserID).Return(&suite.sender, nil).Once()
	suite.mockAccountRepo.On("FindPrimaryAccountByUser", ctx, suite.sender.UserID).Return(&suite.senderAcct, nil).Once()
	suite.mockAccountRepo.On("FindPrimaryAccountByUser", ctx, suite.recipient.UserID).Return(&suite.recipientAcct, nil).Once()
	suite.mockTransferRepo.On("CreateTransfer", ctx, mock.AnythingOfType("domain.Transfer")).
		Return(nil).Once().
		Run(func(args mock.Arguments) {
			transfer := args.Get(1).(domain.Transfer)
			suite.Equal(domain.TransferTypeRequest, transfer.Type)
			suite.Equal(domain.TransferStatusPending, transfer.Status)
			suite.Equal(suite.senderAcct.AccountID, transfer.AccountFromID)
			suite.Equal(suite.recipientAcct.AccountID, transfer.AccountToID)
			suite.Equal(suite.recipient.UserID, transfer.CreatedBy)
			suite.Nil(transfer.CompletedAt)
		})

	result, err := suite.service.RequestTransfer(ctx, suite.recipient.UserID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.TransferStatusPending, result.Status)
	// No balance moves on a request.
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyBalanceChange", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestRequestTransfer_FromSelf() {
	ctx := context.Background()
	req := dto.RequestTransferRequest{FromUserID: suite.recipient.UserID, Amount: decimal.NewFromInt(10)}

	result, err := suite.service.RequestTransfer(ctx, suite.recipient.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrSelfTransfer)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "CreateTransfer", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestRequestTransfer_PayerNotFound() {
	ctx := context.Background()
	req := dto.RequestTransferRequest{FromUserID: suite.sender.UserID, Amount: decimal.NewFromInt(10)}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.sender.UserID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.RequestTransfer(ctx, suite.recipient.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidPayer)
	suite.assertAllExpectations()
}

// --- SettleTransfer ---

func (suite *TransferServiceTestSuite) pendingRequest() *domain.Transfer {
	return &domain.Transfer{
		TransferID:    uuid.NewString(),
		Type:          domain.TransferTypeRequest,
		Status:        domain.TransferStatusPending,
		AccountFromID: suite.senderAcct.AccountID,
		AccountToID:   suite.recipientAcct.AccountID,
		Amount:        decimal.NewFromInt(25),
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     suite.recipient.UserID,
	}
}

func (suite *TransferServiceTestSuite) TestSettleTransfer_Approve() {
	ctx := context.Background()
	pending := suite.pendingRequest()
	now := time.Now().UTC()
	settled := *pending
	settled.Status = domain.TransferStatusApproved
	settled.CompletedAt = &now

	suite.mockTransferRepo.On("FindTransferByID", ctx, pending.TransferID).Return(pending, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{pending.AccountFromID}).
		Return(map[string]domain.Account{pending.AccountFromID: suite.senderAcct}, nil).Once()
	suite.mockTransferRepo.On("SettleTransfer", ctx, pending.TransferID, domain.TransferStatusApproved, suite.sender.UserID).
		Return(&settled, nil).Once()
	suite.expectSettlementNotifications(ctx, suite.senderAcct, suite.recipientAcct)

	result, err := suite.service.SettleTransfer(ctx, suite.sender.UserID, pending.TransferID, true)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(domain.TransferStatusApproved, result.Status)
	suite.Require().NotNil(result.CompletedAt)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestSettleTransfer_Reject() {
	ctx := context.Background()
	pending := suite.pendingRequest()
	now := time.Now().UTC()
	settled := *pending
	settled.Status = domain.TransferStatusRejected
	settled.CompletedAt = &now

	suite.mockTransferRepo.On("FindTransferByID", ctx, pending.TransferID).Return(pending, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{pending.AccountFromID}).
		Return(map[string]domain.Account{pending.AccountFromID: suite.senderAcct}, nil).Once()
	suite.mockTransferRepo.On("SettleTransfer", ctx, pending.TransferID, domain.TransferStatusRejected, suite.sender.UserID).
		Return(&settled, nil).Once()

	result, err := suite.service.SettleTransfer(ctx, suite.sender.UserID, pending.TransferID, false)

	suite.Require().NoError(err)
	suite.Equal(domain.TransferStatusRejected, result.Status)
	// A rejection moves no money, so nobody gets notified.
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyBalanceChange", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestSettleTransfer_OnlyPayerMaySettle() {
	ctx := context.Background()
	pending := suite.pendingRequest()

	suite.mockTransferRepo.On("FindTransferByID", ctx, pending.TransferID).Return(pending, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{pending.AccountFromID}).
		Return(map[string]domain.Account{pending.AccountFromID: suite.senderAcct}, nil).Once()

	// The requester tries to approve their own request.
	result, err := suite.service.SettleTransfer(ctx, suite.recipient.UserID, pending.TransferID, true)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "SettleTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestSettleTransfer_AlreadySettled() {
	ctx := context.Background()
	pending := suite.pendingRequest()
	now := time.Now().UTC()
	pending.Status = domain.TransferStatusApproved
	pending.CompletedAt = &now

	suite.mockTransferRepo.On("FindTransferByID", ctx, pending.TransferID).Return(pending, nil).Once()

	result, err := suite.service.SettleTransfer(ctx, suite.sender.UserID, pending.TransferID, true)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrAlreadySettled)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "SettleTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestSettleTransfer_InsufficientFundsLeavesPending() {
	ctx := context.Background()
	pending := suite.pendingRequest()

	suite.mockTransferRepo.On("FindTransferByID", ctx, pending.TransferID).Return(pending, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{pending.AccountFromID}).
		Return(map[string]domain.Account{pending.AccountFromID: suite.senderAcct}, nil).Once()
	suite.mockTransferRepo.On("SettleTransfer", ctx, pending.TransferID, domain.TransferStatusApproved, suite.sender.UserID).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	result, err := suite.service.SettleTransfer(ctx, suite.sender.UserID, pending.TransferID, true)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyBalanceChange", mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

// --- MoveBetweenOwnAccounts ---

func (suite *TransferServiceTestSuite) TestMoveBetweenOwnAccounts_Success() {
	ctx := context.Background()
	secondary := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    suite.sender.UserID,
		Balance:   decimal.Zero,
		IsPrimary: false,
	}
	req := dto.MoveFundsRequest{
		FromAccountID: suite.senderAcct.AccountID,
		ToAccountID:   secondary.AccountID,
		Amount:        decimal.NewFromInt(100),
	}
	now := time.Now().UTC()
	settled := domain.Transfer{
		TransferID:    uuid.NewString(),
		Type:          domain.TransferTypeAccountMove,
		Status:        domain.TransferStatusApproved,
		AccountFromID: suite.senderAcct.AccountID,
		AccountToID:   secondary.AccountID,
		Amount:        req.Amount,
		CreatedAt:     now,
		CreatedBy:     suite.sender.UserID,
		CompletedAt:   &now,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.senderAcct.AccountID).Return(&suite.senderAcct, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, secondary.AccountID).Return(&secondary, nil).Once()
	suite.mockTransferRepo.On("CreateAndSettleTransfer", ctx, mock.AnythingOfType("domain.Transfer"), domain.TransferStatusApproved).
		Return(&settled, nil).Once()
	suite.expectSettlementNotifications(ctx, suite.senderAcct, secondary)

	result, err := suite.service.MoveBetweenOwnAccounts(ctx, suite.sender.UserID, req)

	suite.Require().NoError(err)
	suite.Equal(domain.TransferTypeAccountMove, result.Type)
	suite.Equal(domain.TransferStatusApproved, result.Status)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestMoveBetweenOwnAccounts_SameAccount() {
	ctx := context.Background()
	req := dto.MoveFundsRequest{
		FromAccountID: suite.senderAcct.AccountID,
		ToAccountID:   suite.senderAcct.AccountID,
		Amount:        decimal.NewFromInt(10),
	}

	result, err := suite.service.MoveBetweenOwnAccounts(ctx, suite.sender.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrSelfTransfer)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "CreateAndSettleTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestMoveBetweenOwnAccounts_IntoPrimaryRejected() {
	ctx := context.Background()
	secondary := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    suite.sender.UserID,
		Balance:   decimal.NewFromInt(200),
		IsPrimary: false,
	}
	req := dto.MoveFundsRequest{
		FromAccountID: secondary.AccountID,
		ToAccountID:   suite.senderAcct.AccountID,
		Amount:        decimal.NewFromInt(50),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, secondary.AccountID).Return(&secondary, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.senderAcct.AccountID).Return(&suite.senderAcct, nil).Once()

	result, err := suite.service.MoveBetweenOwnAccounts(ctx, suite.sender.UserID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidRecipient)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "CreateAndSettleTransfer", mock.Anything, mock.Anything, mock.Anything)
	suite.assertAllExpectations()
}

// --- GetTransfer / ListTransfers ---

func (suite *TransferServiceTestSuite) TestGetTransfer_ParticipantOnly() {
	ctx := context.Background()
	pending := suite.pendingRequest()
	outsiderID := uuid.NewString()

	suite.mockTransferRepo.On("FindTransferByID", ctx, pending.TransferID).Return(pending, nil).Twice()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{pending.AccountFromID, pending.AccountToID}).
		Return(map[string]domain.Account{
			pending.AccountFromID: suite.senderAcct,
			pending.AccountToID:   suite.recipientAcct,
		}, nil).Twice()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.sender.UserID).Return(&suite.sender, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.recipient.UserID).Return(&suite.recipient, nil).Once()

	details, err := suite.service.GetTransfer(ctx, pending.TransferID, suite.sender.UserID)
	suite.Require().NoError(err)
	suite.Equal("alice", details.FromUsername)
	suite.Equal("bob", details.ToUsername)
	suite.Equal("Pending", details.StatusLabel)

	_, err = suite.service.GetTransfer(ctx, pending.TransferID, outsiderID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestListTransfers_DefaultsToPrimary() {
	ctx := context.Background()
	pending := suite.pendingRequest()
	req := dto.ListTransfersRequest{Limit: 20}

	suite.mockAccountRepo.On("FindPrimaryAccountByUser", ctx, suite.sender.UserID).Return(&suite.senderAcct, nil).Once()
	suite.mockTransferRepo.On("ListTransfers", ctx, mock.AnythingOfType("repositories.ListTransfersFilter")).
		Return([]domain.Transfer{*pending}, "next-token", nil).Once().
		Run(func(args mock.Arguments) {
			filter := args.Get(1).(portsrepo.ListTransfersFilter)
			suite.Equal(suite.senderAcct.AccountID, filter.AccountID)
			suite.Equal(20, filter.Limit)
			suite.Nil(filter.Type)
			suite.Nil(filter.Status)
		})
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{pending.AccountFromID, pending.AccountToID}).
		Return(map[string]domain.Account{
			pending.AccountFromID: suite.senderAcct,
			pending.AccountToID:   suite.recipientAcct,
		}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.sender.UserID).Return(&suite.sender, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.recipient.UserID).Return(&suite.recipient, nil).Once()

	resp, err := suite.service.ListTransfers(ctx, suite.sender.UserID, req)

	suite.Require().NoError(err)
	suite.Len(resp.Transfers, 1)
	suite.Equal("next-token", resp.NextToken)
	suite.assertAllExpectations()
}

func (suite *TransferServiceTestSuite) TestListTransfers_TypeAndStatusFilters() {
	ctx := context.Background()
	req := dto.ListTransfersRequest{
		AccountID: suite.senderAcct.AccountID,
		Type:      "REQUEST",
		Status:    "PENDING",
		Limit:     10,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.senderAcct.AccountID).Return(&suite.senderAcct, nil).Once()
	suite.mockTransferRepo.On("ListTransfers", ctx, mock.AnythingOfType("repositories.ListTransfersFilter")).
		Return([]domain.Transfer{}, "", nil).Once().
		Run(func(args mock.Arguments) {
			filter := args.Get(1).(portsrepo.ListTransfersFilter)
			suite.Require().NotNil(filter.Type)
			suite.Require().NotNil(filter.Status)
			suite.Equal(domain.TransferTypeRequest, *filter.Type)
			suite.Equal(domain.TransferStatusPending, *filter.Status)
		})
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{}).
		Return(map[string]domain.Account{}, nil).Once()

	resp, err := suite.service.ListTransfers(ctx, suite.sender.UserID, req)

	suite.Require().NoError(err)
	suite.Empty(resp.Transfers)
	suite.Empty(resp.NextToken)
	suite.assertAllExpectations()
}

func TestTransferService(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
