package api

import (
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Pissaia92/assetforge-plataform/internal/config"
	"github.com/Pissaia92/assetforge-plataform/internal/metrics"
)

// NewRouter builds the gin engine: liveness and read routes are public,
// mutating asset routes require a bearer token.
func NewRouter(h *Handler, m *metrics.Metrics, cfg *config.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), countRequests(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/", h.root)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	assets := r.Group("/assets")
	assets.GET("", h.listAssets)
	assets.GET("/:id", h.getAsset)

	authed := assets.Group("", JWTAuth([]byte(cfg.JWTSecret)))
	authed.POST("", h.createAsset)
	authed.PUT("/:id", h.updateAsset)
	authed.DELETE("/:id", h.deleteAsset)

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func countRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
