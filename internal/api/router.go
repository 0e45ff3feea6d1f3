package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/config"
	"github.com/wedding-planner-api/internal/metrics"
	"github.com/wedding-planner-api/internal/service"
)

// NewRouter creates and configures the Gin router. reg may be nil, in which
// case /metrics is not served.
func NewRouter(services *service.Services, reg *metrics.Registry, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	if reg != nil {
		router.Use(metricsMiddleware(reg))
	}

	// Handlers
	screenHandler := NewScreenHandler(services, log)
	authHandler := NewAuthHandler(services, log)
	mediaHandler := NewMediaHandler(services, log)

	router.GET("/health", healthCheck)
	if reg != nil {
		router.GET("/metrics", gin.WrapH(reg.Handler()))
	}

	// API v1
	v1 := router.Group("/v1")
	{
		screens := v1.Group("/screens")
		{
			screens.GET("", screenHandler.ListScreens)
			screens.POST("", screenHandler.MountScreen)
			screens.GET("/:id", screenHandler.GetScreen)
			screens.DELETE("/:id", screenHandler.UnmountScreen)

			screens.PUT("/:id/facets/:facet", screenHandler.SetFacet)
			screens.DELETE("/:id/filters", screenHandler.ResetFilters)

			screens.POST("/:id/records", screenHandler.AddRecord)
			screens.PATCH("/:id/records/:rid", screenHandler.UpdateRecord)
			screens.DELETE("/:id/records/:rid", screenHandler.DeleteRecord)
			screens.POST("/:id/records/:rid/toggle", screenHandler.ToggleRecord)
			screens.POST("/:id/favorites/:rid", screenHandler.ToggleFavorite)
			screens.POST("/:id/reset", screenHandler.ResetScreen)

			screens.GET("/:id/export", screenHandler.ExportScreen)
			screens.POST("/:id/share", screenHandler.ShareScreen)
		}

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/session", authHandler.CreateSession)
			authGroup.GET("/session", authHandler.GetSession)
			authGroup.DELETE("/session", authHandler.EndSession)
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/signin", authHandler.SignIn)
			authGroup.POST("/signout", authHandler.SignOut)
		}

		nav := v1.Group("/navigation")
		{
			nav.GET("", authHandler.GetNavigation)
			nav.POST("/navigate", authHandler.Navigate)
			nav.POST("/back", authHandler.GoBack)
			nav.PUT("/tab", authHandler.SelectTab)
		}

		mediaGroup := v1.Group("/media")
		{
			mediaGroup.POST("/pick", mediaHandler.Pick)
			mediaGroup.POST("/share", mediaHandler.Share)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "wedding-planner-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// metricsMiddleware counts requests by matched route
func metricsMiddleware(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		reg.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+sessionHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
