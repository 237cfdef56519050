package purchase

import (
	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/gig"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	engine *Engine
	logger *zap.Logger
}

func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/gigs/:id/purchase", authMW, h.confirm)
}

func (h *Handler) confirm(c *gin.Context) {
	var req ConfirmRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
			return
		}
	}

	attempt, err := h.engine.Confirm(c.Request.Context(), common.GetUserIDFromContext(c), c.Param("id"), gig.PaymentMethod(req.PaymentMethod))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if len(attempt.Warnings) > 0 {
		common.RespondOK(c, attempt.Warnings[0], ToConfirmResponse(attempt))
		return
	}
	common.RespondOK(c, "Purchase confirmed.", ToConfirmResponse(attempt))
}
