package response

import (
	"math"
	"strings"
	"time"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/utils"
)

type CommentResponse struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movie_id"`
	Email     string    `json:"email"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Stars     string    `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
	Age       string    `json:"age"`
}

type CommentStatsResponse struct {
	AverageRating float64 `json:"average_rating"`
	CommentCount  int     `json:"comment_count"`
}

// Stars renders a rating as filled stars, one per point.
func Stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat("★", rating)
}

func CommentToResponse(comment entity.Comment, now time.Time) CommentResponse {
	return CommentResponse{
		ID:        comment.ID.String(),
		MovieID:   comment.MovieID.String(),
		Email:     comment.AuthorEmail,
		Text:      comment.Body,
		Rating:    comment.Rating,
		Stars:     Stars(comment.Rating),
		CreatedAt: comment.CreatedAt,
		Age:       utils.TimeAgo(comment.CreatedAt, now),
	}
}

func CommentsToResponse(comments []entity.Comment, now time.Time) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = CommentToResponse(c, now)
	}
	return out
}

func StatsToResponse(stats usecase.CommentStats) CommentStatsResponse {
	return CommentStatsResponse{
		AverageRating: math.Round(stats.AverageRating*10) / 10,
		CommentCount:  stats.Count,
	}
}
