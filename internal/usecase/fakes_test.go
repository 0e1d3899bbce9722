package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"movie-galaxy/internal/data/entity"

	"github.com/google/uuid"
)

var errRemote = errors.New("remote failure")

func movie(title, genre string) entity.Movie {
	return entity.Movie{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		Title:      title,
		Genre:      genre,
	}
}

type fakeCatalogBackend struct {
	mu          sync.Mutex
	movies      []entity.Movie
	listErr     error
	createErr   error
	listCalls   int
	createCalls int
}

func (f *fakeCatalogBackend) ListMovies(context.Context) ([]entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]entity.Movie(nil), f.movies...), nil
}

func (f *fakeCatalogBackend) CreateMovie(_ context.Context, m entity.Movie) (entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return entity.Movie{}, f.createErr
	}
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	f.movies = append(f.movies, m)
	return m, nil
}

func (f *fakeCatalogBackend) setMovies(movies ...entity.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies = movies
}

func (f *fakeCatalogBackend) failList(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

// fakeCommentBackend keeps the subscription callbacks so tests can push lists.
type fakeCommentBackend struct {
	mu           sync.Mutex
	subs         map[uuid.UUID]func([]entity.Comment)
	initial      map[uuid.UUID][]entity.Comment
	subscribeErr map[uuid.UUID]error
	created      []entity.Comment
	deleted      []uuid.UUID
	createErr    error
	deleteErr    error
	subscribes   int
	unsubscribes int
}

func newFakeCommentBackend() *fakeCommentBackend {
	return &fakeCommentBackend{
		subs:         make(map[uuid.UUID]func([]entity.Comment)),
		initial:      make(map[uuid.UUID][]entity.Comment),
		subscribeErr: make(map[uuid.UUID]error),
	}
}

func (f *fakeCommentBackend) CreateComment(_ context.Context, c entity.Comment) (entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return entity.Comment{}, f.createErr
	}
	c.ID = uuid.New()
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCommentBackend) DeleteComment(_ context.Context, _, commentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, commentID)
	return f.deleteErr
}

func (f *fakeCommentBackend) Subscribe(_ context.Context, movieID uuid.UUID, onChange func([]entity.Comment)) (Unsubscribe, error) {
	f.mu.Lock()
	f.subscribes++
	if err := f.subscribeErr[movieID]; err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.subs[movieID] = onChange
	initial := append([]entity.Comment{}, f.initial[movieID]...)
	f.mu.Unlock()

	onChange(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, movieID)
			f.unsubscribes++
		})
	}, nil
}

func (f *fakeCommentBackend) push(movieID uuid.UUID, list []entity.Comment) {
	f.mu.Lock()
	fn := f.subs[movieID]
	f.mu.Unlock()
	if fn != nil {
		fn(list)
	}
}

func (f *fakeCommentBackend) callback(movieID uuid.UUID) func([]entity.Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[movieID]
}

func (f *fakeCommentBackend) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeCommentBackend) counts() (created, deleted, subscribes, unsubscribes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created), len(f.deleted), f.subscribes, f.unsubscribes
}

func comments(movieID uuid.UUID, ratings ...int) []entity.Comment {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := make([]entity.Comment, len(ratings))
	for i, r := range ratings {
		out[i] = entity.Comment{
			BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			MovieID:     movieID,
			AuthorEmail: "viewer@example.com",
			Body:        "comment",
			Rating:      r,
		}
	}
	return out
}

type fakeViewer struct {
	identity Identity
	signedIn bool
	admin    bool
}

func (v fakeViewer) Identity() (Identity, bool) { return v.identity, v.signedIn }
func (v fakeViewer) IsAdmin() bool             { return v.admin }

var (
	anonymous = fakeViewer{}
	member    = fakeViewer{identity: Identity{UserID: "u1", Email: "member@example.com"}, signedIn: true}
	admin     = fakeViewer{identity: Identity{UserID: "u2", Email: "admin@example.com"}, signedIn: true, admin: true}
)

type fakeAuth struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	resolveErr error
	signInErr  error
	signOuts   int
	listeners  map[int]func(SessionEvent)
	nextID     int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		sessions:  make(map[string]*Session),
		listeners: make(map[int]func(SessionEvent)),
	}
}

func (f *fakeAuth) add(email string, role entity.UserRole) *Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &Session{
		Identity:  Identity{UserID: uuid.NewString(), Email: email, Role: role},
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.sessions[s.Token] = s
	return s
}

func (f *fakeAuth) SignUp(_ context.Context, email, _ string) (*Session, error) {
	return f.add(email, entity.RoleMember), nil
}

func (f *fakeAuth) SignIn(_ context.Context, email, _ string) (*Session, error) {
	f.mu.Lock()
	err := f.signInErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.add(email, entity.RoleMember), nil
}

func (f *fakeAuth) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	f.signOuts++
	delete(f.sessions, token)
	f.mu.Unlock()
	f.emit(SessionEvent{Token: token})
	return nil
}

func (f *fakeAuth) Resolve(_ context.Context, token string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.sessions[token], nil
}

func (f *fakeAuth) OnSessionChange(listener func(SessionEvent)) Unsubscribe {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = listener
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *fakeAuth) emit(ev SessionEvent) {
	f.mu.Lock()
	listeners := make([]func(SessionEvent), 0, len(f.listeners))
	for _, fn := range f.listeners {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// gatedCatalogBackend holds every ListMovies result until the test releases
// that call, so reload interleavings can be forced.
type gatedCatalogBackend struct {
	*fakeCatalogBackend

	listed chan int

	gateMu sync.Mutex
	gates  []chan struct{}
}

func newGatedCatalogBackend() *gatedCatalogBackend {
	return &gatedCatalogBackend{
		fakeCatalogBackend: &fakeCatalogBackend{},
		listed:             make(chan int, 8),
	}
}

func (g *gatedCatalogBackend) ListMovies(ctx context.Context) ([]entity.Movie, error) {
	movies, err := g.fakeCatalogBackend.ListMovies(ctx)

	gate := make(chan struct{})
	g.gateMu.Lock()
	call := len(g.gates)
	g.gates = append(g.gates, gate)
	g.gateMu.Unlock()

	g.listed <- call
	<-gate
	return movies, err
}

func (g *gatedCatalogBackend) release(call int) {
	g.gateMu.Lock()
	gate := g.gates[call]
	g.gateMu.Unlock()
	close(gate)
}

func (g *gatedCatalogBackend) creates() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createCalls
}
