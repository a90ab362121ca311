package routes

import (
	"net/http"
	"time"

	"trimly/handlers"
	"trimly/middleware"
	"trimly/models"
	"trimly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the unauthenticated surface: directory,
// shop pages and the availability polling reads.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/shops", hb.ShopDirectoryHandler)
		api.GET("/shops/:slug", hb.GetShopBySlugHandler)
		api.GET("/shops/:slug/slots", hb.GetAvailableSlotsHandler)
		api.GET("/shops/:slug/days", hb.GetDaySummariesHandler)

		api.POST("/shops/register", hb.RegisterShopHandler)
		api.POST("/auth/barber/login", hb.LoginBarberHandler)
		api.POST("/auth/customer/login", hb.LoginCustomerHandler)
		api.POST("/auth/customer/register", hb.RegisterCustomerHandler)
	}
}

// RegisterCustomerRoutes registers the customer self-service surface.
func RegisterCustomerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/me")
	api.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleCustomer))
	{
		api.GET("/profile", hb.GetMyProfileHandler)
		api.PATCH("/profile", hb.UpdateMyProfileHandler)
		api.GET("/bookings", hb.ListMyBookingsHandler)
		api.POST("/bookings", hb.CreateBookingHandler)
		api.PATCH("/bookings/:id", hb.PatchBookingHandler)
	}
}

// RegisterDashboardRoutes registers the barber dashboard.
func RegisterDashboardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/dashboard")
	api.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleBarber))
	{
		api.GET("/shop", hb.GetMyShopHandler)
		api.PATCH("/shop", hb.UpdateShopProfileHandler)
		api.PUT("/schedule", hb.UpdateScheduleHandler)

		api.GET("/services", hb.ListServicesHandler)
		api.POST("/services", hb.CreateServiceHandler)
		api.PATCH("/services/:id", hb.UpdateServiceHandler)
		api.POST("/services/:id/image", hb.UploadServiceImageHandler)

		api.GET("/blocks", hb.ListBlocksHandler)
		api.POST("/blocks", hb.CreateBlockHandler)
		api.DELETE("/blocks/:id", hb.DeleteBlockHandler)
		api.GET("/closures", hb.ListClosuresHandler)
		api.POST("/closures", hb.CreateClosureHandler)
		api.DELETE("/closures/:id", hb.DeleteClosureHandler)

		api.GET("/agenda", hb.GetAgendaHandler)
		api.POST("/bookings/manual", hb.CreateManualBookingHandler)
		api.PATCH("/bookings/:id", hb.PatchBookingHandler)
		api.POST("/bookings/:id/no-show", hb.MarkNoShowHandler)
		api.POST("/bookings/:id/reminder", hb.SendReminderHandler)

		api.GET("/customers", hb.ListShopCustomersHandler)
		api.GET("/metrics", hb.GetMetricsHandler)
		api.POST("/metrics/reset", hb.ResetMetricsHandler)
		api.GET("/metrics/reports", hb.ListMetricReportsHandler)

		api.GET("/plans", hb.GetSubscriptionHandler)
		api.PUT("/plans", hb.ActivatePlanHandler)
	}
}

// RegisterCronRoutes registers scheduled-job entrypoints.
func RegisterCronRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/cron")
	{
		api.POST("/reminders", hb.ReminderSweepHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Mongo {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware())

	RegisterPublicRoutes(r, hb)
	RegisterCustomerRoutes(r, hb)
	RegisterDashboardRoutes(r, hb)
	RegisterCronRoutes(r, hb)
	RegisterHealthRoute(r)
}
