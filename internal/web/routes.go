package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/tkral/faceid/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	modelHandler := handlers.NewModelHandler(s.db)
	recognizeHandler := handlers.NewRecognizeHandler(s.db)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Model summary
		r.Get("/model", modelHandler.Get)

		// Face recognition on an uploaded image
		r.Post("/recognize", recognizeHandler.Recognize)
	})
}
