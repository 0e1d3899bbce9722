package response

import (
	"time"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/internal/usecase"
)

type MovieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genre       string    `json:"genre"`
	PosterURL   string    `json:"poster_url,omitempty"`
	MediaURL    string    `json:"media_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type MovieDetailResponse struct {
	MovieResponse
	Stats CommentStatsResponse `json:"comment_stats"`
}

func MovieToResponse(movie entity.Movie) MovieResponse {
	return MovieResponse{
		ID:          movie.ID.String(),
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       movie.Genre,
		PosterURL:   movie.PosterURL,
		MediaURL:    movie.MediaURL,
		CreatedAt:   movie.CreatedAt,
	}
}

func MoviesToResponse(movies []entity.Movie) []MovieResponse {
	out := make([]MovieResponse, len(movies))
	for i, m := range movies {
		out[i] = MovieToResponse(m)
	}
	return out
}

func MovieDetailToResponse(movie entity.Movie, stats usecase.CommentStats) MovieDetailResponse {
	return MovieDetailResponse{
		MovieResponse: MovieToResponse(movie),
		Stats:         StatsToResponse(stats),
	}
}
