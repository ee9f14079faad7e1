package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeffstoncourt/bookingserver/internal/container"
	"github.com/jeffstoncourt/bookingserver/internal/handlers"
	"github.com/jeffstoncourt/bookingserver/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(appContainer *container.Container, allowOrigin string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(appContainer.Logger))
	r.Use(middleware.ErrorHandler(appContainer.Logger))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "jeffston-court-api",
			})
		})

		v1.GET("/listings", handlers.ListListings(appContainer.ListingsService, appContainer.Notifier))
		v1.GET("/listings/:id", handlers.GetListing(appContainer.ListingsService))
		v1.GET("/apartments", handlers.ListApartments(appContainer.ListingsService, appContainer.Notifier))
	}

	bookingRoutes := v1.Group("/bookings")
	{
		bookingRoutes.POST("", handlers.CreateBooking(appContainer.BookingService, appContainer.Notifier))
		bookingRoutes.GET("/state", handlers.BookingState(appContainer.BookingService))
		bookingRoutes.GET("/export", handlers.ExportBookings(appContainer.BookingService))
	}

	paymentRoutes := v1.Group("/payments")
	{
		paymentRoutes.POST("/verify", handlers.VerifyPayment(appContainer.BookingService, appContainer.Notifier))
		paymentRoutes.POST("/cancel", handlers.CancelPayment(appContainer.BookingService, appContainer.Notifier))
	}

	return r
}
