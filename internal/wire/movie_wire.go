package wire

import (
	"movie-galaxy/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/movies?search=&genre= - Filtered catalog
	r.Get("/api/movies", movieHandler.GetMovies)

	// GET /api/movies/{id} - Movie details with rating stats
	r.Get("/api/movies/{id}", movieHandler.GetMovieByID)

	// GET /api/genres - Distinct genres for the filter
	r.Get("/api/genres", movieHandler.GetGenres)
}
