package gig

import (
	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts the catalog. Reads are public, writes and owner lists need a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	gigs := rg.Group("/gigs")
	gigs.GET("", h.listGigs)
	gigs.GET("/search", h.searchGigs)
	gigs.GET("/:id", h.getGig)
	gigs.POST("", authMW, h.createGig)

	rg.GET("/me/gigs", authMW, h.listMyGigs)
}

func (h *Handler) listGigs(c *gin.Context) {
	gigs, err := h.service.ListGigs(c.Request.Context(), "", common.GetLimitParam(c, 0, 0))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Gigs retrieved.", ToGigResponses(gigs))
}

func (h *Handler) listMyGigs(c *gin.Context) {
	gigs, err := h.service.ListGigs(c.Request.Context(), common.GetUserIDFromContext(c), common.GetLimitParam(c, 0, 0))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Your gigs retrieved.", ToGigResponses(gigs))
}

func (h *Handler) searchGigs(c *gin.Context) {
	gigs, err := h.service.Search(c.Request.Context(), c.Query("q"), common.GetLimitParam(c, 0, 0))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Search results.", ToGigResponses(gigs))
}

func (h *Handler) getGig(c *gin.Context) {
	g, err := h.service.GetGig(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Gig retrieved.", ToGigResponse(g))
}

func (h *Handler) createGig(c *gin.Context) {
	var req CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	owner := Owner{ID: common.GetUserIDFromContext(c)}
	if u := middleware.GetSessionUser(c); u != nil {
		owner.Name, owner.Email = u.Name, u.Email
	}

	g, err := h.service.CreateGig(c.Request.Context(), owner, req.Input())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Gig created.", ToGigResponse(g))
}
