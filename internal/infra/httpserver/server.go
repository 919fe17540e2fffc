// Package httpserver exposes the cleanup batch as an HTTP trigger.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cpghub_cleanup/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	router *gin.Engine
	logger *logrus.Entry
	addr   string
}

// NewServer wires the trigger routes. releaseMode disables gin's debug output.
func NewServer(runner app.CleanupRunner, logger *logrus.Entry, addr string, releaseMode bool) *Server {
	if releaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{router: router, logger: logger, addr: addr}
	s.setupRoutes(NewTriggerHandler(runner, logger))
	return s
}

func (s *Server) setupRoutes(trigger *TriggerHandler) {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The trigger checks neither method nor path: everything except OPTIONS runs the batch.
	s.router.Any("/", trigger.Handle)
	s.router.Any("/cleanup-expired-jobs", trigger.Handle)
	s.router.NoRoute(trigger.Handle)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.WithField("address", s.addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.WithError(err).Error("Server forced to shutdown")
			return err
		}
		s.logger.Info("Server gracefully shut down")
		return nil
	}
}

func requestLogger(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("HTTP request")
	}
}
