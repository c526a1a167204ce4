package app

import (
	"net/http"

	"cabinbooking/internal/domain"
	"cabinbooking/internal/middleware"
	"cabinbooking/internal/modules/admin"
	"cabinbooking/internal/modules/auth"
	"cabinbooking/internal/modules/booking"
	"cabinbooking/internal/modules/catalog"
	"cabinbooking/internal/modules/notification"
	jwtsvc "cabinbooking/internal/pkg/jwt"
	"cabinbooking/internal/realtime"

	"github.com/gin-gonic/gin"
)

// HealthSource reports the state of the booking sync.
type HealthSource interface {
	Snapshot() domain.Snapshot
	SyncErr() error
}

type Deps struct {
	JWT         *jwtsvc.Service
	Bookings    *booking.Service
	Health      HealthSource
	Hub         *realtime.Hub
	Inbox       *notification.Service
	CORSOrigins []string
}

// NewRouter mounts the member API under /api/v1, the admin API under
// /api/v1/admin and the live feed at /ws. Hub and Inbox may be nil.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), gin.Logger(), middleware.ErrorLogger(), middleware.CORS(d.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if d.Health.SyncErr() != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "bookings": d.Health.Snapshot().Len()})
	})

	if d.Hub != nil {
		r.GET("/ws", middleware.JWTAuth(d.JWT), realtime.NewHandler(d.Hub, d.CORSOrigins).ServeWS)
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(d.JWT))
	{
		booking.NewHandler(d.Bookings).RegisterRoutes(v1)
		catalog.NewHandler(d.Bookings).RegisterRoutes(v1)
		if d.Inbox != nil {
			notification.NewHandler(d.Inbox).RegisterRoutes(v1)
		}
		auth.NewHandler(auth.NewService(d.Health, d.JWT)).RegisterProtectedRoutes(v1)

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		admin.NewHandler(d.Bookings).RegisterRoutes(adminGroup)
	}

	return r
}
