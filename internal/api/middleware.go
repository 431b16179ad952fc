package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mwantia/gomaterials/pkg/log"
)

// RequestLogger writes one line per request; the level follows the response status.
func RequestLogger(logger log.LoggerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if logger == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		msg := "%s %s %d %dms"
		args := []any{strings.ToUpper(c.Request.Method), path, status, time.Since(start).Milliseconds()}

		switch {
		case status >= 500:
			logger.Error(msg, args...)
		case status >= 400:
			logger.Warn(msg, args...)
		default:
			logger.Debug(msg, args...)
		}
	}
}

func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With", "X-Forwarded-Proto"},
		MaxAge:       12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
