package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/talentloop/scheduling-api/internal/handler"
	availabilityH "github.com/talentloop/scheduling-api/internal/handler/availability"
	interviewH "github.com/talentloop/scheduling-api/internal/handler/interview"
	participantH "github.com/talentloop/scheduling-api/internal/handler/participant"
	"github.com/talentloop/scheduling-api/internal/middleware"
	"github.com/talentloop/scheduling-api/pkg/logger"
)

type Router struct {
	engine        *gin.Engine
	h             *handler.Handler
	interviewH    *interviewH.Handler
	availabilityH *availabilityH.Handler
	participantH  *participantH.Handler
	metrics       *routerMetrics
}

type Config struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	RequestTimeout   time.Duration
	CORSConfig       middleware.CORSConfig
	MetricsPrefix    string
}

func NewRouter(
	h *handler.Handler,
	ivH *interviewH.Handler,
	availH *availabilityH.Handler,
	partH *participantH.Handler,
	log *logger.Logger,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:        engine,
		h:             h,
		interviewH:    ivH,
		availabilityH: availH,
		participantH:  partH,
		metrics:       initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(config.RequestTimeout),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", r.h.LivenessCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	api.GET("/availability", r.availabilityH.Resolve)
	api.GET("/slots", r.availabilityH.Slots)
	api.POST("/slots/suggestions", r.availabilityH.Suggest)

	interviews := api.Group("/interviews")
	{
		interviews.POST("", r.interviewH.Create)
		interviews.GET("", r.interviewH.List)
		interviews.GET("/:id", r.interviewH.Get)
		interviews.PATCH("/:id", r.interviewH.Transition)
		interviews.POST("/:id/reschedule", r.interviewH.Reschedule)
		interviews.POST("/:id/feedback", r.interviewH.AttachFeedback)
		interviews.POST("/:id/documents", r.interviewH.AttachDocument)
	}

	participants := api.Group("/participants")
	{
		participants.GET("/:id", r.participantH.Get)
	}
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
