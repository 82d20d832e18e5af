package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/velmoney/velmo_app/internal/core/ports/services"
	"github.com/velmoney/velmo_app/internal/dto"
	"github.com/velmoney/velmo_app/internal/middleware"
)

// AccountHandler handles account and balance requests.
type AccountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(as portssvc.AccountSvcFacade) *AccountHandler {
	return &AccountHandler{accountService: as}
}

// registerAccountRoutes sets up the account and balance routes on the
// authenticated API group.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := NewAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.CreateAccount)
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:accountID", h.GetAccount)
		accounts.PUT("/:accountID/primary", h.SetPrimaryAccount)
		accounts.DELETE("/:accountID", h.CloseAccount)
		accounts.GET("/:accountID/user", h.GetAccountOwner)
	}

	balance := rg.Group("/balance")
	{
		balance.GET("", h.GetPrimaryBalance)
		balance.GET("/all", h.ListBalances)
		balance.GET("/:accountID", h.GetBalance)
	}
}

// CreateAccount godoc
// @Summary Open a new account
// @Description Opens an additional account for the authenticated user.
// @Tags accounts
// @Produce json
// @Success 201 {object} dto.AccountResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// ListAccounts godoc
// @Summary List own accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	accounts, err := h.accountService.ListAccountsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// GetAccount godoc
// @Summary Get one of your accounts
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// SetPrimaryAccount godoc
// @Summary Make an account the primary one
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/primary [put]
func (h *AccountHandler) SetPrimaryAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.accountService.SetPrimaryAccount(c.Request.Context(), userID, c.Param("accountID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CloseAccount godoc
// @Summary Close an account
// @Description Closes a non-primary account. Any remaining balance is swept
// @Description into the primary account first.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Primary accounts cannot be closed"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *AccountHandler) CloseAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.accountService.SoftDeleteAccount(c.Request.Context(), userID, c.Param("accountID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAccountOwner godoc
// @Summary Resolve the user owning an account
// @Description Used to confirm the recipient before sending money.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/user [get]
func (h *AccountHandler) GetAccountOwner(c *gin.Context) {
	owner, err := h.accountService.GetAccountOwner(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(owner))
}

// GetPrimaryBalance godoc
// @Summary Get primary account balance
// @Tags balance
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Security BearerAuth
// @Router /balance [get]
func (h *AccountHandler) GetPrimaryBalance(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	account, err := h.accountService.GetPrimaryAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(account))
}

// ListBalances godoc
// @Summary Get balances of all own accounts
// @Tags balance
// @Produce json
// @Success 200 {array} dto.BalanceResponse
// @Security BearerAuth
// @Router /balance/all [get]
func (h *AccountHandler) ListBalances(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	accounts, err := h.accountService.ListAccountsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	balances := make([]dto.BalanceResponse, len(accounts))
	for i := range accounts {
		balances[i] = dto.ToBalanceResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, balances)
}

// GetBalance godoc
// @Summary Get the balance of a specific own account
// @Tags balance
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /balance/{accountID} [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(account))
}
