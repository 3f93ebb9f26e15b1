package chat

import (
	"net/http"
	"strconv"

	"servimarket/internal/api"
	"servimarket/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// SendMessage godoc
// @Summary      Send a message in a conversation
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                 true  "Conversation ID"
// @Param        request  body  SendMessageRequest  true  "Message body"
// @Success      201 {object} MessageWithSender
// @Failure      403 {object} api.ErrorResponse
// @Router       /conversations/{id}/messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	conversationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Conversation not found"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "message is required"})
		return
	}

	can, err := h.svc.CanSendMessage(c.Request.Context(), conversationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to check conversation"})
		return
	}
	if !can {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "you are not part of this conversation"})
		return
	}

	msg, err := h.svc.CreateMessage(c.Request.Context(), conversationID, userID, req.Message, req.MessageType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// ListMessages godoc
// @Summary      Conversation message history
// @Tags         conversations
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   int  true   "Conversation ID"
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Success      200 {array} Message
// @Failure      403 {object} api.ErrorResponse
// @Router       /conversations/{id}/messages [get]
func (h *Handler) ListMessages(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	conversationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Conversation not found"})
		return
	}

	can, err := h.svc.CanSendMessage(c.Request.Context(), conversationID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to check conversation"})
		return
	}
	if !can {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "you are not part of this conversation"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.svc.GetMessages(c.Request.Context(), conversationID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}
