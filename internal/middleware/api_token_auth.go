package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
)

const apiTokenHeader = "X-API-Token"

// APITokenAuthMiddleware authenticates machine callers presenting an
// "id.secret" credential. On success the request is marked authenticated and
// scoped to the token's address; otherwise the chain continues so the JWT
// middleware can have a go.
func APITokenAuthMiddleware(tokenSvc portssvc.APITokenSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(apiTokenHeader)
		if presented == "" {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())
		token, err := tokenSvc.VerifyAPIToken(c.Request.Context(), presented)
		if err != nil {
			logger.Warn("API token rejected", slog.String("error", err.Error()))
			c.Next() // fall through to JWT auth, which will reject
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, "token:"+token.TokenID)
		ctx = context.WithValue(ctx, addressIDKey, token.AddressID)
		enrichedLogger := logger.With(slog.String("api_token_id", token.TokenID))
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Set("authMethod", "api_token")
		c.Next()
	}
}
