// File: internal/middleware/auth.go
package middleware

import (
	"context"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionResolver verifies a session token and returns the user it belongs to.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.User, error)
	CookieName() string
}

// AuthMiddleware requires a valid session token, taken from the Authorization header
// or the session cookie, and stores the user in the gin context.
func AuthMiddleware(resolver SessionResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := common.GetTokenFromRequest(c, resolver.CookieName())
		if token == "" {
			logger.Debug("Session token missing", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Sign in to continue."))
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.Debug("Session token rejected", zap.Error(err))
			common.RespondWithError(c, err)
			return
		}

		c.Set(common.UserIDKey, user.ID)
		c.Set(common.UserKey, user)
		c.Next()
	}
}

// GetSessionUser returns the user stored by AuthMiddleware, or nil.
func GetSessionUser(c *gin.Context) *session.User {
	val, exists := c.Get(common.UserKey)
	if !exists {
		return nil
	}
	user, _ := val.(*session.User)
	return user
}
