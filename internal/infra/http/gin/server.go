package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHandler
	Listing        ListingHandler
	HostListing    HostListingHandler
	Booking        BookingHandler
	HostBooking    HostBookingHandler
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := NewRouter(obsMW, health, h)
	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

// NewRouter builds the full route table; split from NewServer so handler
// tests can drive it through httptest.
func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/me", h.Auth.Me)

	api.GET("/listings", h.Listing.Catalog)
	api.GET("/listings/:id", h.Listing.Detail)

	api.POST("/bookings", h.Booking.Create)
	api.GET("/bookings/:id", h.Booking.Get)
	api.PATCH("/bookings/:id/status", h.Booking.UpdateStatus)
	api.DELETE("/bookings/:id", h.Booking.Delete)
	api.GET("/me/bookings", h.Booking.ListMine)

	host := api.Group("/host")
	host.GET("/listings", h.HostListing.List)
	host.POST("/listings", h.HostListing.Create)
	host.PUT("/listings/:id", h.HostListing.Update)
	host.DELETE("/listings/:id", h.HostListing.Delete)
	host.POST("/listings/:id/photos", h.HostListing.UploadPhotos)
	host.GET("/bookings", h.HostBooking.List)

	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
