package notification

import (
	"net/http"
	"strconv"

	"servimarket/internal/api"
	"servimarket/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	dispatcher Dispatcher
}

func NewHandler(dispatcher Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// GetUnreadCount godoc
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]int
// @Router       /notifications/unread [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	count, err := h.dispatcher.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// List godoc
// @Summary      List notifications, most recent first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Success      200 {array} Notification
// @Router       /notifications [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, err := h.dispatcher.GetNotifications(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkAsRead godoc
// @Summary      Mark one notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Notification ID"
// @Success      200 {object} api.SuccessResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Notification not found"})
		return
	}

	updated, err := h.dispatcher.MarkAsRead(c.Request.Context(), userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update notification"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, api.SuccessResponse{Success: true})
}

// MarkAllAsRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.SuccessResponse
// @Router       /notifications/read-all [patch]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	if err := h.dispatcher.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, api.SuccessResponse{Success: true})
}
