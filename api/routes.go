package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the post, bot and health endpoints
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(RequestLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.getHealth())

		r.Route("/api", func(r chi.Router) {
			// Post Handler endpoints
			r.Get("/posts", handlers.postHandler.getAllPosts())
			r.Post("/posts", handlers.postHandler.createPost())
			r.Get("/posts/{postID}", handlers.postHandler.getPost())
			r.Put("/posts/{postID}", handlers.postHandler.updatePost())
			r.Delete("/posts/{postID}", handlers.postHandler.deletePost())
			r.Get("/posts/{postID}/markdown", handlers.postHandler.exportPostMarkdown())

			// Bot Handler endpoints
			r.Post("/bot/generate", handlers.botHandler.generatePost())
		})
	})
}
