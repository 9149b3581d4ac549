package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbooks/bookkeeping_backend/internal/apperrors"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

// requestScope resolves the path addressID and the acting user, enforcing
// that an API-token caller only touches the address its token is scoped to.
func requestScope(c *gin.Context) (addressID, userID string, ok bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID = c.Param("addressID")
	if addressID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "addressID is required"})
		return "", "", false
	}

	userID, found := middleware.GetUserIDFromContext(c.Request.Context())
	if !found {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}

	if scopedAddressID, scoped := middleware.GetAuthAddressIDFromContext(c.Request.Context()); scoped && scopedAddressID != addressID {
		logger.Warn("API token used outside its address scope",
			slog.String("token_address_id", scopedAddressID),
			slog.String("requested_address_id", addressID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Token is not valid for this address"})
		return "", "", false
	}

	return addressID, userID, true
}

// respondServiceError maps service-layer errors onto HTTP statuses. Integrity
// failures get a generic body: the detail belongs in the logs, not the wire.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrIntegrity):
		logger.Error("Integrity failure", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger integrity check failed"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrBusinessRule):
		logger.Warn("Business rule violation", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting operation", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logger.Error("Unexpected service error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
