// File: internal/common/context_helpers.go
package common

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetTokenFromHeader retrieves the bearer token from the Authorization header.
// Returns an empty string if not found.
func GetTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return parts[1]
}

// GetTokenFromRequest prefers the Authorization header and falls back to the session cookie.
func GetTokenFromRequest(c *gin.Context, cookieName string) string {
	if token := GetTokenFromHeader(c); token != "" {
		return token
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// Returns "" if not set.
func GetUserIDFromContext(c *gin.Context) string {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}
	userID, ok := val.(string)
	if !ok {
		return ""
	}
	return userID
}
