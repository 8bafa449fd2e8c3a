package middlewares

import (
	"Appointo/utils"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKey defines a custom context key type to store user details in the context.
type contextKey string

const userIDKey contextKey = "userID"

// TokenAuthMiddleware validates the patient's access token and puts the user
// id into the request context. The token is read from the accessToken cookie,
// falling back to an Authorization bearer header.
func TokenAuthMiddleware(tokens *utils.TokenMaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(utils.AccessTokenCookie)
		if err != nil || token == "" {
			token, _ = bearerToken(c)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ExtractUserIDFromContext retrieves the userID from the context.
func ExtractUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok || userID <= 0 {
		return 0, errors.New("user ID not found in context")
	}
	return userID, nil
}
