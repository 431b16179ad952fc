package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/mwantia/gomaterials/internal/config/server"
	"github.com/mwantia/gomaterials/pkg/attachment"
	"github.com/mwantia/gomaterials/pkg/db/models"
	"github.com/mwantia/gomaterials/pkg/log"
	"github.com/mwantia/gomaterials/pkg/metrics"

	"github.com/mwantia/gomaterials/internal/material"
)

const defaultMaxUploadSize = 32 << 20

// MaterialService is the part of material.Service the handlers depend on.
type MaterialService interface {
	Create(ctx context.Context, fields material.Fields, document, image *material.Upload) (*models.Material, error)
	Update(ctx context.Context, id uint, fields material.Fields, document, image *material.Upload) (*models.Material, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Material, error)
	Get(ctx context.Context, id uint) (*models.Material, error)
}

type AttachmentReader interface {
	Open(ctx context.Context, path string) (io.ReadSeekCloser, *attachment.Info, error)
}

type HealthChecker interface {
	Health(ctx context.Context) error
}

type RouterConfig struct {
	HTTP        config.HTTPServerConfig
	AccessLog   bool
	Materials   MaterialService
	Attachments AttachmentReader
	Health      HealthChecker
	Log         log.LoggerService
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.AccessLog {
		router.Use(RequestLogger(cfg.Log))
	}
	router.Use(metrics.Middleware())
	router.Use(CORS(cfg.HTTP.CORSOrigins))

	maxUploadSize := cfg.HTTP.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}

	links := newLinkBuilder(cfg.HTTP.PublicURL)
	materials := &MaterialHandler{
		service:       cfg.Materials,
		links:         links,
		log:           cfg.Log,
		maxUploadSize: maxUploadSize,
	}
	uploads := &UploadHandler{
		attachments: cfg.Attachments,
	}

	router.GET("/healthz", healthCheck(cfg.Health))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.POST("/materials", materials.Create)
		api.GET("/materials", materials.List)
		api.GET("/materials/:id", materials.Get)
		api.PUT("/materials/:id", materials.Update)
		api.DELETE("/materials/:id", materials.Delete)
	}

	router.GET("/uploads/:partition/:name", uploads.Serve)
	router.HEAD("/uploads/:partition/:name", uploads.Serve)

	return router
}

func healthCheck(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			if err := checker.Health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
