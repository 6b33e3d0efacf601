package httpapi

import (
	"net/http"

	"marketplace-engine/internal/ports/inbound"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users inbound.UserService
}

func NewUserHandler(users inbound.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// SyncProfile handles PUT /me
func (h *UserHandler) SyncProfile(c *gin.Context) {
	var req inbound.SyncProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.SyncProfile(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me handles GET /me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), principalFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListNotifications handles GET /me/notifications
func (h *UserHandler) ListNotifications(c *gin.Context) {
	list, err := h.users.ListNotifications(c.Request.Context(), principalFrom(c), queryBool(c, "unread"), queryInt(c, "limit"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list, "count": len(list)})
}

// MarkRead handles POST /me/notifications/:id/read
func (h *UserHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.MarkNotificationRead(c.Request.Context(), principalFrom(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
