package wire

import (
	"movie-galaxy/internal/adaptor"
	"movie-galaxy/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	// GET /api/session - current session snapshot, anonymous included
	r.Get("/api/session", authHandler.GetSession)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireAuth(log)).Post("/api/logout", authHandler.Logout)
}
