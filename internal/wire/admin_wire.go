package wire

import (
	"movie-galaxy/internal/adaptor"
	"movie-galaxy/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(r chi.Router, handler *adaptor.Handler, log *zap.Logger) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(middleware.Admin(log)) // Must be signed in and admin

		r.Post("/", handler.Movie.CreateMovie)                                // POST /api/admin/movies
		r.Delete("/{id}/comments/{commentId}", handler.Comment.DeleteComment) // DELETE /api/admin/movies/{id}/comments/{commentId}
	})
}
