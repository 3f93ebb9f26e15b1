package presence

import (
	"io"
	"net/http"

	"servimarket/internal/api"
	"servimarket/internal/auth"
	"servimarket/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	registry     *Registry
	socketSecret string
}

func NewHandler(registry *Registry, socketSecret string) *Handler {
	return &Handler{
		registry:     registry,
		socketSecret: socketSecret,
	}
}

// Stream godoc
// @Summary      Real-time notification stream
// @Description  Server-sent events stream; requires a valid access token in the token query parameter.
// @Tags         stream
// @Produce      text/event-stream
// @Param        token  query  string  true  "Access token"
// @Success      200 {string} string
// @Failure      401 {object} api.ErrorResponse
// @Router       /stream [get]
func (h *Handler) Stream(c *gin.Context) {
	claims := auth.VerifySocketToken(c.Query("token"), h.socketSecret)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid stream token"})
		return
	}

	client := h.registry.Register(claims.UserID)
	defer h.registry.Unregister(client)

	logger.Info("stream connected", "user_id", claims.UserID, "client_id", client.ID.String())

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("connected", gin.H{"client_id": client.ID.String()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-client.Done():
			return false
		case ev, ok := <-client.Events():
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		}
	})

	logger.Info("stream disconnected", "user_id", claims.UserID, "client_id", client.ID.String())
}
