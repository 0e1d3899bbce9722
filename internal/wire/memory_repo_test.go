package wire

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/internal/data/repository"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]entity.User
	sessions map[uuid.UUID]entity.Session
	movies   []entity.Movie
	comments []entity.Comment
}

func newMemoryRepository() *repository.Repository {
	s := &memoryStore{
		users:    make(map[uuid.UUID]entity.User),
		sessions: make(map[uuid.UUID]entity.Session),
	}
	return &repository.Repository{
		User:    memoryUsers{s},
		Session: memorySessions{s},
		Movie:   memoryMovies{s},
		Comment: memoryComments{s},
	}
}

type memoryUsers struct{ *memoryStore }

func (m memoryUsers) Create(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m memoryUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

type memorySessions struct{ *memoryStore }

func (m memorySessions) Create(_ context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = *session
	return nil
}

func (m memorySessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || !s.Active(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (m memorySessions) Revoke(_ context.Context, token uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	m.sessions[token] = s
	return nil
}

func (m memorySessions) CleanExpiredSessions(context.Context) error {
	return nil
}

type memoryMovies struct{ *memoryStore }

func (m memoryMovies) Create(_ context.Context, movie *entity.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movies = append(m.movies, *movie)
	return nil
}

func (m memoryMovies) FindAll(context.Context) ([]entity.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Movie{}, m.movies...), nil
}

type memoryComments struct{ *memoryStore }

func (m memoryComments) Create(_ context.Context, comment *entity.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, *comment)
	return nil
}

func (m memoryComments) FindByMovieID(_ context.Context, movieID uuid.UUID) ([]entity.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Comment{}
	for _, c := range m.comments {
		if c.MovieID == movieID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m memoryComments) Delete(_ context.Context, movieID, commentID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.comments {
		if c.ID == commentID && c.MovieID == movieID {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
