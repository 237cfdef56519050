// File: internal/common/response.go
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the body of every successful JSON response under /api/v1.
type Envelope struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// RespondWithError aborts with the APIError carried by err. Errors outside the
// taxonomy are logged and reported as INTERNAL_SERVER_ERROR; their text is only
// exposed in debug mode.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		requestLogger(c).Error("Unmapped error reached the response layer", zap.Error(err))
		apiErr = ErrInternalServer
		if gin.Mode() == gin.DebugMode {
			apiErr = apiErr.WithDetails(err.Error())
		}
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

func RespondSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Envelope{Status: "success", Message: message, Data: data})
}

func RespondOK(c *gin.Context, message string, data interface{}) {
	RespondSuccess(c, http.StatusOK, message, data)
}

func RespondCreated(c *gin.Context, message string, data interface{}) {
	RespondSuccess(c, http.StatusCreated, message, data)
}

// RespondPaginated always includes data, even when the page is empty.
func RespondPaginated(c *gin.Context, message string, data interface{}, pagination *Pagination) {
	if data == nil {
		data = []struct{}{}
	}
	c.JSON(http.StatusOK, Envelope{Status: "success", Message: message, Data: data, Pagination: pagination})
}

func requestLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(LoggerKey); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}
