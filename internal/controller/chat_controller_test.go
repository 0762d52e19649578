package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/service"
	"recipeshare_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newChatTestRouter(authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	if authed {
		r.Use(func(c *gin.Context) {
			c.Set("user", &util.Claims{UserID: 1})
			c.Next()
		})
	}

	ctrl := NewChatController(service.NewChatService(&repository.ConversationRepository{}, &repository.UserRepository{}), nil)
	r.GET("/api/conversations", ctrl.ListConversations)
	r.GET("/api/conversations/:id/messages", ctrl.ListMessages)
	r.POST("/api/conversations/:id/messages", ctrl.SendMessage)
	r.GET("/api/messages/has-new", ctrl.HasNewMessages)
	return r
}

func TestChatEndpointsRequireAuth(t *testing.T) {
	r := newChatTestRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListMessagesRejectsBadID(t *testing.T) {
	r := newChatTestRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversations/abc/messages", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageRejectsEmptyBody(t *testing.T) {
	r := newChatTestRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/conversations/5/messages", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHasNewMessagesRejectsBadTimestamp(t *testing.T) {
	r := newChatTestRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/messages/has-new?lastViewed=yesterday", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
