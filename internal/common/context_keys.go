// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for the authenticated user's identity provider UID
	UserIDKey = "userID"
	// UserKey is the context key for the normalized session user view
	UserKey = "sessionUser"
	// LoggerKey is the context key for the request scoped logger
	LoggerKey = "logger"
	// RequestIDKey is the context key for the request ID
	RequestIDKey = "requestID"
)
