package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/winsim/wheel-backend/internal/config"
	"github.com/winsim/wheel-backend/internal/handlers"
	"github.com/winsim/wheel-backend/internal/middleware"
)

// HandlerDependencies groups the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler  *handlers.AuthHandler
	WheelHandler *handlers.WheelHandler
	SpinHandler  *handlers.SpinHandler
	CronHandler  *handlers.CronHandler
	WSHandler    *handlers.WSHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Viewer-facing wheel routes: shared by link, no identity required.
		public.GET("/wheels/slug/:slug", deps.WheelHandler.GetWheelBySlug)
		public.POST("/wheels/:id/join", deps.WheelHandler.Join)
		public.POST("/wheels/:id/auto-spin", deps.SpinHandler.AutoSpin)

		// Realtime subscriber feed
		public.GET("/ws/wheels/:id", deps.WSHandler.Subscribe)
	}

	// Cron sweep, shared-secret auth
	cron := router.Group("/api/v1/cron")
	cron.Use(middleware.CronAuthMiddleware(cfg))
	{
		cron.GET("/spin", deps.CronHandler.Sweep)
	}

	// Host routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		wheels := protected.Group("/wheels")
		{
			wheels.POST("", deps.WheelHandler.CreateWheel)
			wheels.GET("", deps.WheelHandler.GetMyWheels)
			wheels.GET("/:id", deps.WheelHandler.GetWheel)
			wheels.PATCH("/:id", deps.WheelHandler.UpdateWheel)
			wheels.DELETE("/:id", deps.WheelHandler.DeleteWheel)
			wheels.POST("/:id/participants", deps.WheelHandler.AddParticipant)
			wheels.DELETE("/:id/participants/:pid", deps.WheelHandler.RemoveParticipant)
			wheels.POST("/:id/spin", deps.SpinHandler.Spin)
			wheels.POST("/:id/reset", deps.SpinHandler.Reset)
		}
	}

	return router
}
