package api

import (
	stdhttp "net/http"

	intconfig "seatbooking/internal/config"
	"seatbooking/internal/domain"
	h "seatbooking/internal/http/handlers"
	"seatbooking/internal/http/middleware"
	"seatbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, a *h.API) *gin.Engine {
	h.RegisterValidators()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedList))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogEvent("", "http", "init", "failed to set trusted proxies: "+err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"code":   "not_found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	admin := middleware.RequireAdmin(a.Auth, domain.RoleSuper, domain.RoleStaff)

	api := r.Group("/api")
	{
		api.GET("/health", a.Health)
		api.GET("/db-check", a.DBCheck)
		api.GET("/routes", admin, a.Routes)

		api.POST("/admin/login", a.AdminLogin)

		bookings := api.Group("/bookings")
		bookings.POST("/hold", a.CreateHold)
		bookings.GET("", admin, a.ListBookings)
		bookings.GET("/:id", admin, a.GetBooking)
		bookings.POST("/:id/pay", admin, a.ConfirmBooking)
		bookings.POST("/:id/cancel", admin, a.CancelBooking)
		bookings.GET("/:id/e-ticket", admin, a.GetETicket)

		trips := api.Group("/trips")
		trips.GET("/:id", a.GetTrip)
		trips.GET("/:id/availability", a.GetAvailability)
	}

	h.SetRouter(r)
	return r
}
