package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cabinbooking/internal/middleware"
	"cabinbooking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_MeAndRefresh(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.New("test-secret", time.Hour)

	router := gin.New()
	group := router.Group("/api/v1", middleware.JWTAuth(jwtService))
	NewHandler(NewService(history(), jwtService)).RegisterProtectedRoutes(group)

	token, err := jwtService.GenerateToken("u-1", "member", "Ana")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me?include_stats=true", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Data struct {
			User UserProfileResponse `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "u-1", me.Data.User.ID)
	assert.Equal(t, "Ana", me.Data.User.Name)
	require.NotNil(t, me.Data.User.Stats)
	assert.Equal(t, 4, me.Data.User.Stats.TotalBookings)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed struct {
		Data RefreshResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	claims, err := jwtService.ValidateToken(refreshed.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "member", claims.Role)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
