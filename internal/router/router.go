package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/WahidMubarrat/EmerCare/internal/middleware"
	"github.com/WahidMubarrat/EmerCare/pkg/metrics"
)

// Handler is anything that mounts routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	Mode          string
	RateLimitRPS  float64
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

type Router struct {
	engine  *gin.Engine
	metrics *metrics.Metrics
}

func NewRouter(config Config, handlers ...Handler) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	m := metrics.NewMetrics(config.MetricsPrefix)

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(m),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateBurst)
		engine.Use(limiter.Middleware())
	}

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	return &Router{engine: engine, metrics: m}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Metrics() *metrics.Metrics {
	return r.metrics
}
