package web

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the dashboard routes on router.
func SetupRoutes(router chi.Router, handlers *Handlers) {
	router.Get("/", handlers.Page)
	router.Get("/views/{view}", handlers.View)
	router.Get("/events", handlers.Events)
	router.Get("/banner.png", handlers.Banner)
}
