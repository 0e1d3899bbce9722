// internal/wire/wire.go
package wire

import (
	"net/http"

	"movie-galaxy/internal/adaptor"
	"movie-galaxy/internal/data/backend"
	"movie-galaxy/internal/data/live"
	"movie-galaxy/internal/data/repository"
	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/middleware"
	"movie-galaxy/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds everything main needs to run and stop the service
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Hub     *live.Hub
}

// Wiring builds the backends, use cases and router on top of the repositories
// and the change broker
func Wiring(repo *repository.Repository, broker live.Broker, config *utils.Config, logger *zap.Logger) *App {
	hub := live.NewHub(broker, repo.Comment.FindByMovieID, logger)

	service := usecase.NewService(
		repo,
		backend.NewCatalog(repo.Movie, logger),
		backend.NewComments(repo.Comment, hub, logger),
		config,
		logger,
	)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, config, logger)

	return &App{
		Router:  router,
		Service: service,
		Hub:     hub,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins...))
	r.Use(middleware.Session(service.NewGate, logger))

	// Apply routes
	wireAuth(r, handler.Auth, logger)
	wireMovie(r, handler.Movie)
	wireComment(r, handler.Comment, logger)
	wireAdmin(r, handler, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
