// Package web provides the HTTP API server for a trained face database.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tkral/faceid/internal/config"
	"github.com/tkral/faceid/internal/facedb"
)

// Server wraps the HTTP server and its routing.
type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	db         *facedb.Database
}

// NewServer creates a new web server serving the given face database.
// The database may be nil, in which case recognition endpoints report
// that no model is loaded.
func NewServer(cfg *config.Config, db *facedb.Database, host string, port int) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(60 * time.Second))

	server := &Server{
		config: cfg,
		router: router,
		db:     db,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router (useful for testing).
func (s *Server) Router() *chi.Mux {
	return s.router
}
