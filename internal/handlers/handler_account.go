package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

// accountHandler handles HTTP requests related to nominal accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(accountService portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: accountService}
}

func registerAccountRoutes(addressGroup *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := addressGroup.Group("/accounts")
	{
		accounts.POST("", h.createAddressAccount)
		accounts.GET("", h.listAddressAccounts)
		accounts.PUT("/:addressAccountID", h.updateAddressAccount)
		accounts.DELETE("/:addressAccountID", h.deactivateAddressAccount)
	}
}

func registerGlobalAccountRoutes(v1 *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)
	v1.POST("/organizations/:organizationID/accounts", h.createGlobalAccount)
}

// createGlobalAccount godoc
// @Summary Define a global account
// @Description Defines an account number at the organization level, with its trade-direction flags
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   organizationID path string true "Organization ID"
// @Param   account body dto.CreateGlobalAccountRequest true "Account definition"
// @Success 201 {object} domain.GlobalAccount
// @Failure 409 {object} map[string]string "Account number already defined"
// @Failure 422 {object} map[string]string "Reserved account number"
// @Router /organizations/{organizationID}/accounts [post]
func (h *accountHandler) createGlobalAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	organizationID := c.Param("organizationID")
	userID, found := middleware.GetUserIDFromContext(c.Request.Context())
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateGlobalAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createGlobalAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateGlobalAccount(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create global account")
		return
	}

	logger.Info("Global account created",
		slog.Int64("account_number", account.AccountNumber),
		slog.String("organization_id", organizationID))
	c.JSON(http.StatusCreated, account)
}

// createAddressAccount godoc
// @Summary Bind an account to an address
// @Description Binds a global account number to the caller's address, fixing its currency
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   account body dto.CreateAddressAccountRequest true "Binding details"
// @Success 201 {object} dto.AddressAccountResponse
// @Failure 409 {object} map[string]string "Account already bound"
// @Router /addresses/{addressID}/accounts [post]
func (h *accountHandler) createAddressAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateAddressAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAddressAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAddressAccount(c.Request.Context(), addressID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create address account")
		return
	}

	logger.Info("Address account created",
		slog.String("address_account_id", account.AddressAccountID),
		slog.Int64("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToAddressAccountResponse(account))
}

// listAddressAccounts godoc
// @Summary List the address's accounts
// @Tags accounts
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Success 200 {array} dto.AddressAccountResponse
// @Router /addresses/{addressID}/accounts [get]
func (h *accountHandler) listAddressAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAddressAccounts(c.Request.Context(), addressID)
	if err != nil {
		respondServiceError(c, logger, err, "list accounts")
		return
	}

	out := make([]dto.AddressAccountResponse, len(accounts))
	for i := range accounts {
		out[i] = dto.ToAddressAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, out)
}

// updateAddressAccount godoc
// @Summary Update an address account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   addressAccountID path string true "Address account ID"
// @Param   update body dto.UpdateAddressAccountRequest true "Fields to update"
// @Success 200 {object} dto.AddressAccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /addresses/{addressID}/accounts/{addressAccountID} [put]
func (h *accountHandler) updateAddressAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.UpdateAddressAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateAddressAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.UpdateAddressAccount(c.Request.Context(), addressID, c.Param("addressAccountID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "update address account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAddressAccountResponse(account))
}

// deactivateAddressAccount godoc
// @Summary Deactivate an address account
// @Description Marks the binding inactive; control accounts cannot be deactivated
// @Tags accounts
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   addressAccountID path string true "Address account ID"
// @Success 204 "Deactivated"
// @Failure 422 {object} map[string]string "Control accounts are protected"
// @Router /addresses/{addressID}/accounts/{addressAccountID} [delete]
func (h *accountHandler) deactivateAddressAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	addressAccountID := c.Param("addressAccountID")
	if err := h.accountService.DeactivateAddressAccount(c.Request.Context(), addressID, addressAccountID, userID); err != nil {
		respondServiceError(c, logger, err, "deactivate address account")
		return
	}

	logger.Info("Address account deactivated", slog.String("address_account_id", addressAccountID))
	c.Status(http.StatusNoContent)
}
