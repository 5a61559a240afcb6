package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server is the JSON API server
type Server struct {
	router          *gin.Engine
	port            string
	shutdownTimeout time.Duration
}

// NewServer wires the chart handler into a gin engine
func NewServer(handler *ChartHandler, port, mode string, shutdownTimeout time.Duration) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	handler.RegisterRoutes(router.Group("/api/v1"))

	return &Server{router: router, port: port, shutdownTimeout: shutdownTimeout}
}

// Handler exposes the engine, mainly for tests
func (s *Server) Handler() http.Handler { return s.router }

// Start serves the API until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting API server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	log.Printf("Shutting down API server")
	return srv.Shutdown(shutdownCtx)
}
