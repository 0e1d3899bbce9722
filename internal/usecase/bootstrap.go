package usecase

import (
	"context"
	"errors"
	"sync"

	"movie-galaxy/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const attachConcurrency = 8

// Bootstrap sequences startup in two explicit stages: the catalog is loaded
// first, then one comment subscription per movie is attached concurrently.
// Later catalog loads attach new movies and detach vanished ones.
type Bootstrap struct {
	catalog  *CatalogStore
	comments *CommentSync
	log      *zap.Logger

	once sync.Once
}

func NewBootstrap(catalog *CatalogStore, comments *CommentSync, log *zap.Logger) *Bootstrap {
	return &Bootstrap{
		catalog:  catalog,
		comments: comments,
		log:      log.With(zap.String("service", "bootstrap")),
	}
}

// Start awaits the catalog load, then fans out subscriptions. A failed load
// leaves an empty catalog and no subscriptions; the error is returned so the
// caller can log it, it is not fatal.
func (b *Bootstrap) Start(ctx context.Context) error {
	defer b.followReloads()

	movies, err := b.catalog.Load(ctx)
	if err != nil {
		return err
	}

	return b.attachAll(ctx, movies)
}

// followReloads keeps subscriptions in step with later catalog loads.
func (b *Bootstrap) followReloads() {
	b.once.Do(func() {
		b.catalog.OnLoad(func(movies []entity.Movie) {
			if err := b.sync(context.Background(), movies); err != nil {
				b.log.Warn("Comment sync after reload incomplete", zap.Error(err))
			}
		})
	})
}

func (b *Bootstrap) sync(ctx context.Context, movies []entity.Movie) error {
	keep := make([]uuid.UUID, len(movies))
	for i, m := range movies {
		keep[i] = m.ID
	}
	b.comments.Retain(keep)

	return b.attachAll(ctx, movies)
}

// attachAll tries every movie and reports all failures together.
func (b *Bootstrap) attachAll(ctx context.Context, movies []entity.Movie) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(attachConcurrency)

	for _, m := range movies {
		movieID := m.ID
		g.Go(func() error {
			if err := b.comments.Attach(ctx, movieID, nil); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	b.log.Info("Comment subscriptions attached",
		zap.Int("movies", len(movies)),
		zap.Int("failed", len(errs)),
	)

	return errors.Join(errs...)
}

// Stop releases every comment subscription.
func (b *Bootstrap) Stop() {
	b.comments.Teardown()
}
