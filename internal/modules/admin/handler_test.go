package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/middleware"
	"cabinbooking/internal/modules/booking"
	"cabinbooking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *gin.Engine
	admin  string
	member string
}

func setupRouter(t *testing.T, lc Lifecycle) testEnv {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.New("secret", time.Hour)

	h := NewHandler(lc)
	h.now = func() time.Time { return time.Date(2026, 5, 4, 23, 30, 0, 0, time.UTC) }

	router := gin.New()
	group := router.Group("/api/v1/admin", middleware.JWTAuth(jwtService), middleware.AdminOnly())
	h.RegisterRoutes(group)

	adminToken, err := jwtService.GenerateToken(adminActor.ID, "admin", "")
	require.NoError(t, err)
	memberToken, err := jwtService.GenerateToken("u1", "member", "")
	require.NoError(t, err)
	return testEnv{router: router, admin: adminToken, member: memberToken}
}

func (e testEnv) do(method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	e.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code
}

func TestHandler_Queue(t *testing.T) {
	lc := new(MockLifecycle)
	lc.On("Queue").Return([]domain.Booking{{ID: "b1", Status: domain.BookingPending}})
	env := setupRouter(t, lc)

	w := env.do(http.MethodGet, "/api/v1/admin/queue", env.admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestHandler_QueueForbiddenForMembers(t *testing.T) {
	env := setupRouter(t, new(MockLifecycle))

	w := env.do(http.MethodGet, "/api/v1/admin/queue", env.member)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_ApproveAction(t *testing.T) {
	lc := new(MockLifecycle)
	lc.On("Approve", mock.Anything, "b1", mock.MatchedBy(func(a domain.Actor) bool { return a.ID == adminActor.ID && a.IsAdmin() })).
		Return(&domain.Booking{ID: "b1", Status: domain.BookingApproved, ApprovedBy: "Admin (adm-)"}, nil)
	env := setupRouter(t, lc)

	w := env.do(http.MethodPost, "/api/v1/admin/bookings/b1/approve", env.admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Approved"`)
	lc.AssertExpectations(t)
}

func TestHandler_ActionErrors(t *testing.T) {
	lc := new(MockLifecycle)
	lc.On("Reject", mock.Anything, "b1", mock.Anything).Return(nil, booking.ErrInvalidTransition)
	lc.On("Complete", mock.Anything, "missing", mock.Anything).Return(nil, booking.ErrNotFound)
	env := setupRouter(t, lc)

	w := env.do(http.MethodPost, "/api/v1/admin/bookings/b1/reject", env.admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, w))

	w = env.do(http.MethodPost, "/api/v1/admin/bookings/missing/complete", env.admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/api/v1/admin/bookings/b1/archive", env.admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_ACTION", errorCode(t, w))
}

func TestHandler_Export(t *testing.T) {
	lc := new(MockLifecycle)
	lc.On("Export", mock.Anything).Return(nil, "ID,Cabin\nb1,C1")
	env := setupRouter(t, lc)

	w := env.do(http.MethodGet, "/api/v1/admin/export", env.admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bookings-export-2026-05-04.csv")
	assert.Equal(t, "ID,Cabin\nb1,C1", w.Body.String())
}

func TestHandler_ExportNothing(t *testing.T) {
	lc := new(MockLifecycle)
	lc.On("Export", mock.Anything).Return(booking.ErrNothingToExport, "")
	env := setupRouter(t, lc)

	w := env.do(http.MethodGet, "/api/v1/admin/export", env.admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOTHING_TO_EXPORT", errorCode(t, w))
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}
