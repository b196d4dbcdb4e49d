package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"menuhub/internal/bootstrap/logging"
	"menuhub/internal/usecase/restaurantimport"
)

// ImportService is the part of the import usecase exposed over HTTP.
type ImportService interface {
	Import(ctx context.Context, input restaurantimport.ImportInput) (restaurantimport.Result, error)
	GetAuditLog(ctx context.Context, id uint64) (restaurantimport.AuditLogView, error)
	ListAuditLogs(ctx context.Context, input restaurantimport.ListAuditLogsInput) ([]restaurantimport.AuditLogView, error)
	LatestAuditLog(ctx context.Context) (restaurantimport.AuditLogView, error)
}

type Options struct {
	// MaxUploadBytes caps the request body of an import upload; zero means
	// no limit.
	MaxUploadBytes int64
}

func NewRouter(svc ImportService, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	imports := NewImportHandler(svc, opts.MaxUploadBytes)
	api := router.Group("/api")
	api.POST("/imports", imports.Create)
	api.GET("/imports", imports.List)
	api.GET("/imports/latest", imports.Latest)
	api.GET("/imports/:id", imports.Show)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}

// requestLogger attaches the request attrs to the context logger and logs
// one line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logging.WithAttrs(c.Request.Context(),
			slog.String("component", "transport.http"),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logging.Info(ctx, "http request",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}
