package repository

import (
	"context"
	"fmt"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]entity.Comment, error)
	// Delete reports whether a row was removed
	Delete(ctx context.Context, movieID, commentID uuid.UUID) (bool, error)
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, movie_id, author_email, body, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.MovieID,
		comment.AuthorEmail,
		comment.Body,
		comment.Rating,
		comment.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("movie_id", comment.MovieID.String()),
			zap.String("author", comment.AuthorEmail),
		)
		return fmt.Errorf("create comment for movie %s: %w", comment.MovieID.String(), err)
	}

	return nil
}

// FindByMovieID returns every comment of a movie, oldest first
func (r *commentRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]entity.Comment, error) {
	query := `
		SELECT id, movie_id, author_email, body, rating, created_at
		FROM comments
		WHERE movie_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find comments",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find comments for movie %s: %w", movieID.String(), err)
	}
	defer rows.Close()

	comments := []entity.Comment{}
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.MovieID, &c.AuthorEmail, &c.Body, &c.Rating, &c.CreatedAt); err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, movieID, commentID uuid.UUID) (bool, error) {
	query := `DELETE FROM comments WHERE id = $1 AND movie_id = $2`

	result, err := r.db.Exec(ctx, query, commentID, movieID)
	if err != nil {
		r.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
			zap.String("comment_id", commentID.String()),
		)
		return false, fmt.Errorf("delete comment %s: %w", commentID.String(), err)
	}

	deleted := result.RowsAffected() > 0
	if deleted {
		r.log.Info("Comment deleted",
			zap.String("movie_id", movieID.String()),
			zap.String("comment_id", commentID.String()),
		)
	}

	return deleted, nil
}
