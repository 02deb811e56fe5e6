// Package httpserver exposes the estimator over HTTP and hosts the Telegram
// webhook route.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xaenox/flatprice-bot/internal/catalog"
	"github.com/xaenox/flatprice-bot/internal/models"
	"github.com/xaenox/flatprice-bot/internal/pricing"
)

const shutdownTimeout = 10 * time.Second

type Estimator interface {
	Estimate(apt models.Apartment) (pricing.Quote, error)
	Degraded() bool
	Version() string
	MAPE() (float64, bool)
}

type Server struct {
	router    *gin.Engine
	estimator Estimator
	districts *catalog.Dictionary
	types     *catalog.Dictionary
	port      int
	logger    *zap.Logger
}

func New(port int, estimator Estimator, districts, types *catalog.Dictionary, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		router:    router,
		estimator: estimator,
		districts: districts,
		types:     types,
		port:      port,
		logger:    logger,
	}

	router.GET("/", s.index)
	router.GET("/healthz", s.health)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/predict", s.predict)
		apiV1.GET("/districts", s.listDistricts)
	}
	return s
}

// HandleWebhook mounts the Telegram webhook under /telegram/<secret>.
func (s *Server) HandleWebhook(secret string, h http.Handler) {
	s.router.POST("/telegram/"+secret, gin.WrapH(h))
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
