package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/velmoney/velmo_app/internal/core/ports/services"
	"github.com/velmoney/velmo_app/internal/dto"
	"github.com/velmoney/velmo_app/internal/middleware"
)

// TransferHandler handles transfer and transfer-history requests.
type TransferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ts portssvc.TransferSvcFacade) *TransferHandler {
	return &TransferHandler{transferService: ts}
}

// registerTransferRoutes sets up the transfer routes on the authenticated API
// group.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := NewTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("/send", h.Send)
		transfers.POST("/requests", h.Request)
		transfers.PUT("/requests/:transferID", h.Settle)
		transfers.POST("/move", h.Move)
		transfers.GET("", h.List)
		transfers.GET("/:transferID", h.Get)
	}
}

// Send godoc
// @Summary Send money to another user
// @Description Moves funds from one of your accounts to the recipient. The
// @Description transfer settles immediately.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.SendTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /transfers/send [post]
func (h *TransferHandler) Send(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.SendTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	transfer, err := h.transferService.SendTransfer(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// Request godoc
// @Summary Request money from another user
// @Description Records a pending transfer the payer can approve or reject.
// @Description No balance moves until settlement.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.RequestTransferRequest true "Request details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/requests [post]
func (h *TransferHandler) Request(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.RequestTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	transfer, err := h.transferService.RequestTransfer(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// Settle godoc
// @Summary Approve or reject a pending request
// @Description Only the payer may settle. Approval moves the funds; rejection
// @Description closes the request. Either way the decision is final.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transferID path string true "Transfer ID"
// @Param decision body dto.SettleTransferRequest true "approve or reject"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Only the payer may settle"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already settled or insufficient funds"
// @Security BearerAuth
// @Router /transfers/requests/{transferID} [put]
func (h *TransferHandler) Settle(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.SettleTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	transfer, err := h.transferService.SettleTransfer(c.Request.Context(), userID, c.Param("transferID"), req.Approve())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// Move godoc
// @Summary Move funds between your own accounts
// @Tags transfers
// @Accept json
// @Produce json
// @Param move body dto.MoveFundsRequest true "Move details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /transfers/move [post]
func (h *TransferHandler) Move(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.MoveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	transfer, err := h.transferService.MoveBetweenOwnAccounts(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// List godoc
// @Summary List transfer history
// @Description Lists the history of one of your accounts, newest first, with
// @Description cursor pagination. Defaults to the primary account.
// @Tags transfers
// @Produce json
// @Param accountID query string false "Account ID (defaults to primary)"
// @Param type query string false "Filter by type" Enums(SEND, REQUEST, ACCOUNT_MOVE)
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransfersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.ListTransfersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transferService.ListTransfers(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a single transfer
// @Description Only a participant of the transfer may see it.
// @Tags transfers
// @Produce json
// @Param transferID path string true "Transfer ID"
// @Success 200 {object} dto.TransferDetails
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/{transferID} [get]
func (h *TransferHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	details, err := h.transferService.GetTransfer(c.Request.Context(), c.Param("transferID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}
