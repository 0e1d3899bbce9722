package usecase

import (
	"context"
	"time"

	"movie-galaxy/internal/data/entity"

	"github.com/google/uuid"
)

// Unsubscribe releases a standing subscription. Calling it more than once is safe.
type Unsubscribe func()

type CatalogBackend interface {
	ListMovies(ctx context.Context) ([]entity.Movie, error)
	// CreateMovie assigns the identifier and creation time.
	CreateMovie(ctx context.Context, movie entity.Movie) (entity.Movie, error)
}

type CommentBackend interface {
	// CreateComment assigns the identifier. CreatedAt is kept as given.
	CreateComment(ctx context.Context, comment entity.Comment) (entity.Comment, error)
	DeleteComment(ctx context.Context, movieID, commentID uuid.UUID) error
	// Subscribe delivers the complete current list for movieID now and after
	// every change until the returned Unsubscribe is called.
	Subscribe(ctx context.Context, movieID uuid.UUID, onChange func([]entity.Comment)) (Unsubscribe, error)
}

type AuthBackend interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	// Resolve returns nil when the token does not name a live session.
	Resolve(ctx context.Context, token string) (*Session, error)
	OnSessionChange(listener func(SessionEvent)) Unsubscribe
}

// Identity is who a session belongs to.
type Identity struct {
	UserID string
	Email  string
	Role   entity.UserRole
}

type Session struct {
	Identity
	Token     string
	ExpiresAt time.Time
}

// SessionEvent reports a transition of one token. Session is nil after sign-out.
type SessionEvent struct {
	Token   string
	Session *Session
}

// Viewer is the caller on whose behalf an operation runs.
type Viewer interface {
	Identity() (Identity, bool)
	IsAdmin() bool
}
