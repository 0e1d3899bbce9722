package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/internal/data/repository"
	"movie-galaxy/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func (m *memoryUsers) Create(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func (m *memorySessions) Create(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.sessions[s.Token] = &copied
	return nil
}

func (m *memorySessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || !s.Active(time.Now()) {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *memorySessions) Revoke(_ context.Context, token uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || s.RevokedAt != nil {
		return repository.ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (m *memorySessions) CleanExpiredSessions(context.Context) error {
	return nil
}

func newTestAuth(t *testing.T) *AuthService {
	auth, _ := newTestAuthWithSessions(t)
	return auth
}

func newTestAuthWithSessions(t *testing.T) (*AuthService, *memorySessions) {
	t.Helper()
	users := &memoryUsers{users: make(map[uuid.UUID]*entity.User)}
	sessions := &memorySessions{sessions: make(map[uuid.UUID]*entity.Session)}
	config := &utils.Config{Session: utils.SessionConfig{ExpiryHours: 1}}
	return NewAuthService(users, sessions, config, zap.NewNop()), sessions
}

func TestAuthSignUpSignsIn(t *testing.T) {
	auth := newTestAuth(t)

	var events []SessionEvent
	stop := auth.OnSessionChange(func(ev SessionEvent) { events = append(events, ev) })
	defer stop()

	session, err := auth.SignUp(context.Background(), " New@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", session.Email)
	assert.Equal(t, entity.RoleMember, session.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	resolved, err := auth.Resolve(context.Background(), session.Token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, session.UserID, resolved.UserID)

	require.Len(t, events, 1)
	assert.Equal(t, session.Token, events[0].Token)
}

func TestAuthSignUpErrors(t *testing.T) {
	auth := newTestAuth(t)
	_, err := auth.SignUp(context.Background(), "taken@example.com", "secret1")
	require.NoError(t, err)

	_, err = auth.SignUp(context.Background(), "TAKEN@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = auth.SignUp(context.Background(), "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrValidationRejected)

	_, err = auth.SignUp(context.Background(), "short@example.com", "123")
	assert.ErrorIs(t, err, ErrValidationRejected)
}

func TestAuthSignIn(t *testing.T) {
	auth := newTestAuth(t)
	_, err := auth.SignUp(context.Background(), "viewer@example.com", "secret1")
	require.NoError(t, err)

	session, err := auth.SignIn(context.Background(), "viewer@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "viewer@example.com", session.Email)

	_, err = auth.SignIn(context.Background(), "viewer@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.SignIn(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthSignOut(t *testing.T) {
	auth := newTestAuth(t)
	session, err := auth.SignUp(context.Background(), "viewer@example.com", "secret1")
	require.NoError(t, err)

	var last SessionEvent
	stop := auth.OnSessionChange(func(ev SessionEvent) { last = ev })

	require.NoError(t, auth.SignOut(context.Background(), session.Token))
	assert.Equal(t, session.Token, last.Token)
	assert.Nil(t, last.Session)

	resolved, err := auth.Resolve(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	assert.ErrorIs(t, auth.SignOut(context.Background(), session.Token), ErrUnauthenticated)
	assert.ErrorIs(t, auth.SignOut(context.Background(), "garbage"), ErrUnauthenticated)

	stop()
	stop()
}

func TestAuthResolveGarbageToken(t *testing.T) {
	auth := newTestAuth(t)

	resolved, err := auth.Resolve(context.Background(), "not-a-token")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestAuthRecordsClientInfo(t *testing.T) {
	auth, sessions := newTestAuthWithSessions(t)
	ctx := utils.SetClientContext(context.Background(), utils.ClientInfo{
		UserAgent: "curl/8.0",
		IPAddress: "10.0.0.7",
	})

	session, err := auth.SignUp(ctx, "viewer@example.com", "secret1")
	require.NoError(t, err)

	stored := sessions.sessions[uuid.MustParse(session.Token)]
	require.NotNil(t, stored)
	require.NotNil(t, stored.UserAgent)
	require.NotNil(t, stored.IPAddress)
	assert.Equal(t, "curl/8.0", *stored.UserAgent)
	assert.Equal(t, "10.0.0.7", *stored.IPAddress)
}
