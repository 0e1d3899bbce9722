package backend

import (
	"context"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/internal/data/live"
	"movie-galaxy/internal/data/repository"
	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Comments persists comments and announces every change through the hub so
// that all subscribers, on this instance or another, re-read the movie.
type Comments struct {
	repo repository.CommentRepository
	hub  *live.Hub
	log  *zap.Logger
}

var _ usecase.CommentBackend = (*Comments)(nil)

func NewComments(repo repository.CommentRepository, hub *live.Hub, log *zap.Logger) *Comments {
	return &Comments{
		repo: repo,
		hub:  hub,
		log:  log.With(zap.String("backend", "comments")),
	}
}

func (c *Comments) CreateComment(ctx context.Context, comment entity.Comment) (entity.Comment, error) {
	comment.ID = utils.GenerateUUID()

	if err := c.repo.Create(ctx, &comment); err != nil {
		return entity.Comment{}, err
	}

	c.announce(ctx, comment.MovieID)
	return comment, nil
}

func (c *Comments) DeleteComment(ctx context.Context, movieID, commentID uuid.UUID) error {
	deleted, err := c.repo.Delete(ctx, movieID, commentID)
	if err != nil {
		return err
	}
	if !deleted {
		return usecase.ErrNotFound
	}

	c.announce(ctx, movieID)
	return nil
}

func (c *Comments) Subscribe(ctx context.Context, movieID uuid.UUID, onChange func([]entity.Comment)) (usecase.Unsubscribe, error) {
	unsubscribe, err := c.hub.Subscribe(ctx, movieID, onChange)
	if err != nil {
		return nil, err
	}
	return usecase.Unsubscribe(unsubscribe), nil
}

// The write already succeeded; a lost notification only delays subscribers
// until the next change.
func (c *Comments) announce(ctx context.Context, movieID uuid.UUID) {
	if err := c.hub.Notify(ctx, movieID); err != nil {
		c.log.Warn("Failed to publish comment change",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
	}
}
