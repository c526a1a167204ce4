package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/middleware"
	"cabinbooking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Inbox(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.New("test-secret", time.Hour)
	s := NewService(0)
	n := s.Create("u-1", domain.NotifBookingApproved, "Booking approved", "Cabin C1", "b1")

	router := gin.New()
	NewHandler(s).RegisterRoutes(router.Group("/api/v1", middleware.JWTAuth(jwtService)))

	token, err := jwtService.GenerateToken("u-1", "member", "Ana")
	require.NoError(t, err)
	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/api/v1/notifications?limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Notifications []domain.Notification `json:"notifications"`
			UnreadCount   int                   `json:"unread_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Notifications, 1)
	assert.Equal(t, 1, resp.Data.UnreadCount)

	assert.Equal(t, http.StatusNotFound, do(http.MethodPatch, "/api/v1/notifications/nope/read").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPatch, "/api/v1/notifications/"+n.ID+"/read").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPatch, "/api/v1/notifications/read-all").Code)

	_, unread := s.GetUserNotifications("u-1", 0)
	assert.Equal(t, 0, unread)
}
