package adaptor

import (
	"errors"
	"net/http"
	"time"

	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Movie   *MovieHandler
	Comment *CommentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.NewGate, log),
		Movie:   NewMovieHandler(service.Catalog, service.Comments, log),
		Comment: NewCommentHandler(service.Catalog, service.Comments, time.Now, log),
	}
}

type anonymousViewer struct{}

func (anonymousViewer) Identity() (usecase.Identity, bool) { return usecase.Identity{}, false }
func (anonymousViewer) IsAdmin() bool                      { return false }

// viewerFrom returns the gate set by the session middleware, or an anonymous
// viewer when the route runs without it.
func viewerFrom(r *http.Request) usecase.Viewer {
	if gate, ok := usecase.GateFromContext(r.Context()); ok {
		return gate
	}
	return anonymousViewer{}
}

// uuidParam reads a chi URL parameter that must be a UUID
func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps use case errors onto HTTP responses
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		log.Warn(operation+" failed - not signed in", zap.Error(err))
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - not an admin", zap.Error(err))
		utils.ResponseForbidden(w, "Admin access required")

	case errors.Is(err, usecase.ErrValidationRejected):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid email or password")

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrAlreadyRegistered):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrBackendUnavailable):
		log.Error(operation+" failed - backend unavailable", zap.Error(err))
		utils.ResponseUnavailable(w, "Service temporarily unavailable")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
