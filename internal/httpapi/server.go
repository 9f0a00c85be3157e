// Package httpapi serves the clarify service over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(svc *service.Service, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(requestID(), accessLog(logger), recovery(logger))

	h := NewHandler(svc)

	router.GET(api.RouteHealth, h.Health)

	router.POST(api.RouteAnalyze, h.Analyze)
	router.POST(api.RouteDialogue, h.Dialogue)
	router.POST(api.RouteGenerate, h.GenerateCode)
	router.POST(api.RouteSummarize, h.Summarize)
	router.GET(api.RouteMemory, h.ListMemory)
	router.POST(api.RouteMemory, h.UpsertMemory)

	router.NoRoute(func(c *gin.Context) {
		errorJSON(c, http.StatusNotFound, api.CodeNotFound, "route not found", c.Request.URL.Path)
	})

	return router
}

// Server is the HTTP server of `clarify serve`.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a server on addr.
func NewServer(addr string, svc *service.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(svc, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Serve accepts connections on ln until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("clarify service listening", zap.String("addr", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpapi: serve: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and serves.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("httpapi: listen %s: %w", s.server.Addr, err)
	}
	return s.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("clarify service shutting down")
	return s.server.Shutdown(ctx)
}
