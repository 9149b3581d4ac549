package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

// apiTokenHandler handles HTTP requests related to machine credentials.
type apiTokenHandler struct {
	tokenService portssvc.APITokenSvcFacade
}

// newAPITokenHandler creates a new apiTokenHandler.
func newAPITokenHandler(tokenService portssvc.APITokenSvcFacade) *apiTokenHandler {
	return &apiTokenHandler{tokenService: tokenService}
}

func registerAPITokenRoutes(addressGroup *gin.RouterGroup, tokenService portssvc.APITokenSvcFacade) {
	h := newAPITokenHandler(tokenService)

	tokens := addressGroup.Group("/api-tokens")
	{
		tokens.POST("", h.createAPIToken)
		tokens.GET("", h.listAPITokens)
		tokens.DELETE("/:tokenID", h.revokeAPIToken)
	}
}

// createAPIToken godoc
// @Summary Issue an API token
// @Description Issues a machine credential scoped to the address; the cleartext secret is returned exactly once
// @Tags api-tokens
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   token body dto.CreateAPITokenRequest true "Token name"
// @Success 201 {object} dto.CreateAPITokenResponse
// @Router /addresses/{addressID}/api-tokens [post]
func (h *apiTokenHandler) createAPIToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAPIToken", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.tokenService.CreateAPIToken(c.Request.Context(), addressID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create API token")
		return
	}

	logger.Info("API token created", slog.String("token_id", resp.TokenID))
	c.JSON(http.StatusCreated, resp)
}

// listAPITokens godoc
// @Summary List the address's API tokens
// @Tags api-tokens
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Success 200 {array} dto.APITokenResponse
// @Router /addresses/{addressID}/api-tokens [get]
func (h *apiTokenHandler) listAPITokens(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	tokens, err := h.tokenService.ListAPITokens(c.Request.Context(), addressID)
	if err != nil {
		respondServiceError(c, logger, err, "list API tokens")
		return
	}

	out := make([]dto.APITokenResponse, len(tokens))
	for i := range tokens {
		out[i] = dto.ToAPITokenResponse(&tokens[i])
	}
	c.JSON(http.StatusOK, out)
}

// revokeAPIToken godoc
// @Summary Revoke an API token
// @Tags api-tokens
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   tokenID path string true "Token ID"
// @Success 204 "Revoked"
// @Failure 404 {object} map[string]string "Token not found"
// @Router /addresses/{addressID}/api-tokens/{tokenID} [delete]
func (h *apiTokenHandler) revokeAPIToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	tokenID := c.Param("tokenID")
	if err := h.tokenService.RevokeAPIToken(c.Request.Context(), addressID, tokenID, userID); err != nil {
		respondServiceError(c, logger, err, "revoke API token")
		return
	}

	logger.Info("API token revoked", slog.String("token_id", tokenID))
	c.Status(http.StatusNoContent)
}
