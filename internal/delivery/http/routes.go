package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meshcompare/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", handler.ListSuppliers)
			suppliers.POST("", handler.CreateSupplier)
			suppliers.PUT("/:id", handler.UpdateSupplier)
			suppliers.DELETE("/:id", handler.DeleteSupplier)
		}

		meshes := v1.Group("/meshes")
		{
			meshes.GET("", handler.ListMeshes)
			meshes.POST("", handler.CreateMesh)
			meshes.GET("/groups", handler.GroupMeshes)
			meshes.GET("/:id", handler.GetMesh)
			meshes.PUT("/:id", handler.UpdateMesh)
			meshes.DELETE("/:id", handler.DeleteMesh)
		}

		v1.POST("/compare", handler.Compare)
		v1.POST("/imports", handler.Import)

		// Extraction calls the AI provider, so it gets its own tighter budget
		v1.POST("/extractions", RateLimitMiddleware(cfg.RateLimit.Extraction, 1), handler.Extract)
	}

	return router
}
