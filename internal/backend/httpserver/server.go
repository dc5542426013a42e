// Package httpserver exposes the backend cart contract over HTTP: the same
// surface the storefront's gateway consumes, served from a pluggable store.
package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"marketplace-cart/internal/backend/store"
)

// Pinger verifies the persistence layer is reachable; nil means the server
// runs on the in-memory store and is always ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries the wiring for route handlers.
type Deps struct {
	Store store.Store
	// PaymentURLBase prefixes the redirect URL handed back for external
	// payment flows.
	PaymentURLBase string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server with the cart and checkout routes wired.
func New(addr string, logger *log.Logger, pinger Pinger, deps Deps) *Server {
	router := buildRouter(logger, pinger, deps)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
