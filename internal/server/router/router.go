package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	repo "github.com/dmarinho2/prt-fiscal/internal/repository/supabase"
	"github.com/dmarinho2/prt-fiscal/internal/server/handlers"
	"github.com/dmarinho2/prt-fiscal/internal/server/middleware"
)

// New wires the Gin engine with required routes and middlewares.
func New(records *handlers.RecordsHandler, reports *handlers.ReportsHandler, repository repo.Repository, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.Identity(repository, logger))
	{
		api.GET("/services", records.ListServices)
		api.GET("/records", records.List)
		api.POST("/records", records.Create)
		api.PUT("/records/:id", records.Update)
		api.DELETE("/records/:id", records.Delete)
		api.GET("/records/:id/report", reports.Download)
		api.POST("/records/preview-score", records.PreviewScore)

		admin := api.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/records", records.ListAll)
			admin.POST("/exports/:period", reports.BatchExport)
			admin.GET("/exports", reports.ListArchive)
		}
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
