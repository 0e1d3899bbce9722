package usecase

import (
	"context"
	"strings"
	"sync"

	"movie-galaxy/internal/data/entity"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const defaultFilterCacheSize = 256

type filterKey struct {
	text  string
	genre string
}

// CatalogStore keeps the whole movie list in memory. The list is only ever
// replaced wholesale by Load.
type CatalogStore struct {
	backend CatalogBackend
	log     *zap.Logger

	// loadMu serialises fetch, store and hooks across loads
	loadMu sync.Mutex

	mu       sync.RWMutex
	movies   []entity.Movie
	filtered *lru.Cache[filterKey, []entity.Movie]
	onLoad   []func([]entity.Movie)
}

func NewCatalogStore(backend CatalogBackend, cacheSize int, log *zap.Logger) *CatalogStore {
	if cacheSize <= 0 {
		cacheSize = defaultFilterCacheSize
	}
	// lru.New only fails for a non-positive size
	filtered, _ := lru.New[filterKey, []entity.Movie](cacheSize)

	return &CatalogStore{
		backend:  backend,
		log:      log.With(zap.String("service", "catalog")),
		movies:   []entity.Movie{},
		filtered: filtered,
	}
}

// OnLoad registers fn to run after every successful Load with the new list.
// Hooks run in load order and must not call Load themselves.
func (s *CatalogStore) OnLoad(fn func([]entity.Movie)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLoad = append(s.onLoad, fn)
}

// Load fetches the full collection and replaces the in-memory list. On
// failure the previous list stays in place.
func (s *CatalogStore) Load(ctx context.Context) ([]entity.Movie, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	movies, err := s.backend.ListMovies(ctx)
	if err != nil {
		s.log.Warn("Catalog load failed, keeping previous list", zap.Error(err))
		return s.Movies(), unavailable("load catalog", err)
	}

	loaded := cloneMovies(movies)

	s.mu.Lock()
	s.movies = loaded
	s.filtered.Purge()
	hooks := append(([]func([]entity.Movie))(nil), s.onLoad...)
	s.mu.Unlock()

	s.log.Info("Catalog loaded", zap.Int("count", len(loaded)))

	for _, fn := range hooks {
		fn(cloneMovies(loaded))
	}

	return cloneMovies(loaded), nil
}

func (s *CatalogStore) Movies() []entity.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMovies(s.movies)
}

func (s *CatalogStore) Find(id uuid.UUID) (entity.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.ID == id {
			return m, true
		}
	}
	return entity.Movie{}, false
}

// Filter keeps movies whose title contains text case-insensitively and whose
// genre equals genre exactly. Empty arguments match everything.
func (s *CatalogStore) Filter(text, genre string) []entity.Movie {
	key := filterKey{text: strings.ToLower(text), genre: genre}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if hit, ok := s.filtered.Get(key); ok {
		return cloneMovies(hit)
	}

	result := []entity.Movie{}
	for _, m := range s.movies {
		if !strings.Contains(strings.ToLower(m.Title), key.text) {
			continue
		}
		if genre != "" && m.Genre != genre {
			continue
		}
		result = append(result, m)
	}

	// Add under the read lock so a concurrent Load cannot purge in between
	s.filtered.Add(key, result)
	return cloneMovies(result)
}

// DistinctGenres lists each genre once, in first-seen order.
func (s *CatalogStore) DistinctGenres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.movies))
	genres := []string{}
	for _, m := range s.movies {
		if _, ok := seen[m.Genre]; ok {
			continue
		}
		seen[m.Genre] = struct{}{}
		genres = append(genres, m.Genre)
	}
	return genres
}

// Insert writes a new movie and reloads the catalog. Permission checks are
// the caller's job. A failed reload after a successful write is logged and
// leaves the previous list visible.
func (s *CatalogStore) Insert(ctx context.Context, movie entity.Movie) (entity.Movie, error) {
	created, err := s.backend.CreateMovie(ctx, movie)
	if err != nil {
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", movie.Title))
		return entity.Movie{}, unavailable("create movie", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", created.ID.String()),
		zap.String("title", created.Title),
		zap.String("genre", created.Genre),
	)

	if _, err := s.Load(ctx); err != nil {
		s.log.Warn("Reload after insert failed", zap.Error(err))
	}

	return created, nil
}

func cloneMovies(in []entity.Movie) []entity.Movie {
	out := make([]entity.Movie, len(in))
	copy(out, in)
	return out
}
