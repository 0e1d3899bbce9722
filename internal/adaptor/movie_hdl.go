package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-galaxy/internal/dto/request"
	"movie-galaxy/internal/dto/response"
	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/utils"

	"go.uber.org/zap"
)

type MovieHandler struct {
	catalog  *usecase.CatalogStore
	comments *usecase.CommentSync
	log      *zap.Logger
}

func NewMovieHandler(catalog *usecase.CatalogStore, comments *usecase.CommentSync, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		catalog:  catalog,
		comments: comments,
		log:      log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/movies?search=&genre=
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := request.MovieFilter{
		Search: query.Get("search"),
		Genre:  query.Get("genre"),
	}

	if validationErrors := utils.ValidateStruct(filter); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	movies := h.catalog.Filter(filter.Search, filter.Genre)

	utils.ResponseSuccess(w, "success", response.MoviesToResponse(movies))
}

// GetMovieByID handles GET /api/movies/{id}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movieID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid movie ID", nil)
		return
	}

	movie, found := h.catalog.Find(movieID)
	if !found {
		utils.ResponseNotFound(w, "Movie not found")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully",
		response.MovieDetailToResponse(movie, h.comments.Stats(movieID)))
}

// GetGenres handles GET /api/genres
func (h *MovieHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.catalog.DistinctGenres())
}

// CreateMovie handles POST /api/admin/movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	editor := usecase.NewCatalogEditor(h.catalog)
	for _, fv := range req.Fields() {
		if err := editor.Set(fv.Field, fv.Value); err != nil {
			handleServiceError(w, h.log, err, "create movie")
			return
		}
	}

	movie, err := editor.Submit(r.Context(), viewerFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created successfully", response.MovieToResponse(movie))
}
