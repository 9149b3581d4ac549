package middleware

import "context"

// contextKey is a private key type to prevent collisions in contexts.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	addressIDKey = contextKey("authAddressID")
)

// GetUserIDFromContext retrieves the authenticated caller id from the context.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(userIDKey)
	if val == nil {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok
}

// GetAuthAddressIDFromContext retrieves the address an API token is scoped
// to, when the request authenticated with one. JWT callers have no scoped
// address and get false.
func GetAuthAddressIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(addressIDKey)
	if val == nil {
		return "", false
	}
	addressID, ok := val.(string)
	return addressID, ok
}
