package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ValidateBearerToken guards admin routes with the static token from
// ADMIN_TOKEN in the Authorization header.
func ValidateBearerToken(expectedBearerToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing or malformed"})
			return
		}

		if expectedBearerToken == "" || !secureCompare(token, expectedBearerToken) {
			log.Warn().Str("path", c.Request.URL.Path).Str("remote_ip", c.ClientIP()).Msg("rejected admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Bearer Token"})
			return
		}

		c.Next()
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// secureCompare performs a constant-time comparison of two strings to mitigate timing attacks.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	result := byte(0)
	for i := 0; i < len(a); i++ {
		result |= a[i] ^ b[i]
	}
	return result == 0
}
