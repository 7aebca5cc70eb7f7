package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/sitin-tracker/internal/infra/metrics"
)

type Options struct {
	Addr           string
	ExposeMetrics  bool
	AllowedOrigins []string
	Log            *slog.Logger
	// Mount registers the application routes.
	Mount func(r gin.IRouter)
}

type Server struct {
	srv *http.Server
}

// NewEngine builds the router without binding a listener.
func NewEngine(o Options) *gin.Engine {
	if o.Log == nil {
		o.Log = slog.New(slog.DiscardHandler)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLog(o.Log))
	if len(o.AllowedOrigins) > 0 {
		r.Use(corsFor(o.AllowedOrigins))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if o.ExposeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if o.Mount != nil {
		o.Mount(r)
	}
	return r
}

func New(o Options) *Server {
	return &Server{srv: &http.Server{
		Addr:              o.Addr,
		Handler:           NewEngine(o),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func corsFor(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			// browsers refuse credentials with a wildcard origin
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

func requestLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", elapsed,
		)
	}
}
