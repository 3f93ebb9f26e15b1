package chat

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubChatService struct {
	canSend    bool
	canSendErr error
	created    *MessageWithSender
	messages   []Message
}

func (s *stubChatService) CanSendMessage(ctx context.Context, conversationID, userID int) (bool, error) {
	return s.canSend, s.canSendErr
}

func (s *stubChatService) CreateMessage(ctx context.Context, conversationID, senderID int, text, messageType string) (*MessageWithSender, error) {
	return s.created, nil
}

func (s *stubChatService) GetMessages(ctx context.Context, conversationID, limit, offset int) ([]Message, error) {
	return s.messages, nil
}

func setupChatRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	})

	h := NewHandler(svc)
	router.POST("/conversations/:id/messages", h.SendMessage)
	router.GET("/conversations/:id/messages", h.ListMessages)
	return router
}

func TestSendMessage_Forbidden(t *testing.T) {
	router := setupChatRouter(&stubChatService{canSend: false})

	body := bytes.NewBufferString(`{"message": "hola"}`)
	req := httptest.NewRequest("POST", "/conversations/3/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"you are not part of this conversation"}`, w.Body.String())
}

func TestSendMessage_Success(t *testing.T) {
	router := setupChatRouter(&stubChatService{
		canSend: true,
		created: &MessageWithSender{
			Message: Message{ID: 10, ConversationID: 3, SenderID: 1, Message: "hola", MessageType: "text"},
			Sender:  SenderInfo{ID: 1, FullName: "Ana"},
		},
	})

	body := bytes.NewBufferString(`{"message": "hola"}`)
	req := httptest.NewRequest("POST", "/conversations/3/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"full_name":"Ana"`)
}

func TestSendMessage_EmptyBody(t *testing.T) {
	router := setupChatRouter(&stubChatService{canSend: true})

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest("POST", "/conversations/3/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"message is required"}`, w.Body.String())
}

func TestListMessages_Forbidden(t *testing.T) {
	router := setupChatRouter(&stubChatService{canSend: false})

	req := httptest.NewRequest("GET", "/conversations/3/messages", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListMessages_Success(t *testing.T) {
	router := setupChatRouter(&stubChatService{
		canSend:  true,
		messages: []Message{{ID: 1, ConversationID: 3, SenderID: 2, Message: "hola"}},
	})

	req := httptest.NewRequest("GET", "/conversations/3/messages", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"hola"`)
}
