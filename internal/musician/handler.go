package musician

import (
	"errors"
	"net/http"

	"gigmarket_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts /musician. Bodies are the bare records, without the response envelope.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/musician", h.list)
	rg.POST("/musician", h.create)
}

func (h *Handler) list(c *gin.Context) {
	musicians, err := h.service.ListMusicians(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, musicians)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateMusicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(verrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	m, err := h.service.CreateMusician(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
