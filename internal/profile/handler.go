package profile

import (
	"errors"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/middleware"

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

// RegisterRoutes mounts the profile endpoints. All of them require a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	me := rg.Group("/me", authMW)
	me.GET("/profile", h.getMyProfile)
	me.PATCH("/profile", h.updateMyProfile)

	rg.GET("/profiles/:id", authMW, h.getPublicProfile)
}

func (h *Handler) getMyProfile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	stored, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved.", NewView(userID, stored, DefaultsFromUser(middleware.GetSessionUser(c))))
}

func (h *Handler) updateMyProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(verrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	userID := common.GetUserIDFromContext(c)
	updated, err := h.service.UpdateProfile(c.Request.Context(), userID, req.Changes())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated.", NewView(userID, updated, DefaultsFromUser(middleware.GetSessionUser(c))))
}

func (h *Handler) getPublicProfile(c *gin.Context) {
	id := c.Param("id")
	p, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if p == nil {
		common.RespondWithError(c, profileNotFound(id))
		return
	}
	common.RespondOK(c, "Profile retrieved.", NewPublicView(p))
}
