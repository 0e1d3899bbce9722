package wire

import (
	"movie-galaxy/internal/adaptor"
	"movie-galaxy/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/movies/{id}/comments", commentHandler.GetComments)
	r.Get("/api/movies/{id}/comment-stats", commentHandler.GetCommentStats)

	// GET /api/movies/{id}/comments/stream - Server-sent full-list updates
	r.Get("/api/movies/{id}/comments/stream", commentHandler.StreamComments)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireAuth(log)).Post("/api/movies/{id}/comments", commentHandler.CreateComment)
}
