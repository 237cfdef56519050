package session

import (
	"net/http"

	"gigmarket_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes sign-in, sign-out and current-user endpoints.
type Handler struct {
	manager *Manager
	logger  *zap.Logger
}

func NewHandler(manager *Manager, logger *zap.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

// RegisterRoutes mounts the session endpoints under /session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/session")
	g.POST("", h.signIn)
	g.DELETE("", h.signOut)
	g.GET("", h.current)
}

func (h *Handler) signIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("id_token is required."))
		return
	}
	user, err := h.manager.SignIn(c.Request.Context(), c.Writer, req.IDToken)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Signed in.", user)
}

func (h *Handler) signOut(c *gin.Context) {
	token := common.GetTokenFromRequest(c, h.manager.CookieName())
	h.manager.SignOut(c.Request.Context(), c.Writer, token)
	common.RespondSuccess(c, http.StatusOK, "Signed out.", nil)
}

// current reports the signed-in user, or null data when there is no valid session.
func (h *Handler) current(c *gin.Context) {
	token := common.GetTokenFromRequest(c, h.manager.CookieName())
	if token == "" {
		common.RespondOK(c, "No active session.", nil)
		return
	}
	user, err := h.manager.Resolve(c.Request.Context(), token)
	if err != nil {
		common.RespondOK(c, "No active session.", nil)
		return
	}
	common.RespondOK(c, "Active session.", user)
}
