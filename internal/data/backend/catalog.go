// Package backend adapts the Postgres repositories and the live hub to the
// collaborator interfaces the use cases depend on.
package backend

import (
	"context"
	"time"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/internal/data/repository"
	"movie-galaxy/internal/usecase"
	"movie-galaxy/pkg/utils"

	"go.uber.org/zap"
)

type Catalog struct {
	movies repository.MovieRepository
	log    *zap.Logger
}

var _ usecase.CatalogBackend = (*Catalog)(nil)

func NewCatalog(movies repository.MovieRepository, log *zap.Logger) *Catalog {
	return &Catalog{
		movies: movies,
		log:    log.With(zap.String("backend", "catalog")),
	}
}

func (c *Catalog) ListMovies(ctx context.Context) ([]entity.Movie, error) {
	return c.movies.FindAll(ctx)
}

func (c *Catalog) CreateMovie(ctx context.Context, movie entity.Movie) (entity.Movie, error) {
	movie.ID = utils.GenerateUUID()
	movie.CreatedAt = time.Now().UTC()

	if err := c.movies.Create(ctx, &movie); err != nil {
		return entity.Movie{}, err
	}

	c.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
	)

	return movie, nil
}
