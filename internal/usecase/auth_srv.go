package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"movie-galaxy/internal/data/entity"
	"movie-galaxy/internal/data/repository"
	"movie-galaxy/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type credentials struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=6,max=72"`
}

// AuthService is the auth collaborator, backed by the user and session tables.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	expiry   time.Duration
	log      *zap.Logger

	mu        sync.RWMutex
	listeners map[int]func(SessionEvent)
	nextID    int
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	config *utils.Config,
	log *zap.Logger,
) *AuthService {
	expiry := 24 * time.Hour
	if config != nil && config.Session.ExpiryHours > 0 {
		expiry = time.Duration(config.Session.ExpiryHours) * time.Hour
	}

	return &AuthService{
		users:     users,
		sessions:  sessions,
		expiry:    expiry,
		log:       log.With(zap.String("service", "auth")),
		listeners: make(map[int]func(SessionEvent)),
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	// 1. Validate input
	email = normalizeEmail(email)
	if errs := utils.ValidateStruct(credentials{Email: email, Password: password}); len(errs) > 0 {
		s.log.Warn("Sign up validation failed", zap.Any("errors", errs))
		return nil, rejected(utils.FormatValidationErrors(errs))
	}

	// 2. Email must be free
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, unavailable("check email", err)
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("process password: %w", err)
	}

	// 4. Save user
	now := time.Now()
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleMember,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, unavailable("create account", err)
	}

	// 5. Signed in right away
	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	s.emit(SessionEvent{Token: session.Token, Session: session})
	return session, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if errs := utils.ValidateStruct(credentials{Email: email, Password: password}); len(errs) > 0 {
		s.log.Warn("Sign in validation failed", zap.Any("errors", errs))
		return nil, rejected(utils.FormatValidationErrors(errs))
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, unavailable("find user", err)
	}

	if user == nil {
		s.log.Warn("User not found for sign in", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	s.emit(SessionEvent{Token: session.Token, Session: session})
	return session, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return ErrUnauthenticated
	}

	if err := s.sessions.Revoke(ctx, tokenUUID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrUnauthenticated
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return unavailable("sign out", err)
	}

	s.log.Info("User signed out")
	s.emit(SessionEvent{Token: token})
	return nil
}

func (s *AuthService) Resolve(ctx context.Context, token string) (*Session, error) {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}

	stored, err := s.sessions.FindValidSession(ctx, tokenUUID)
	if err != nil {
		return nil, err
	}
	if stored == nil || !stored.Active(time.Now()) {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Warn("Session points at missing user", zap.String("user_id", stored.UserID.String()))
		return nil, nil
	}

	return toSession(user, stored), nil
}

func (s *AuthService) OnSessionChange(listener func(SessionEvent)) Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// PurgeExpired drops sessions that expired more than a week ago
func (s *AuthService) PurgeExpired(ctx context.Context) error {
	return s.sessions.CleanExpiredSessions(ctx)
}

// ==================== HELPER METHODS ====================

func (s *AuthService) createSession(ctx context.Context, user *entity.User) (*Session, error) {
	now := time.Now()
	stored := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(s.expiry),
	}
	if client, ok := utils.GetClientFromContext(ctx); ok {
		if client.UserAgent != "" {
			stored.UserAgent = &client.UserAgent
		}
		if client.IPAddress != "" {
			stored.IPAddress = &client.IPAddress
		}
	}

	if err := s.sessions.Create(ctx, stored); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, unavailable("create session", err)
	}

	return toSession(user, stored), nil
}

func (s *AuthService) emit(ev SessionEvent) {
	s.mu.RLock()
	listeners := make([]func(SessionEvent), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

func toSession(user *entity.User, stored *entity.Session) *Session {
	return &Session{
		Identity: Identity{
			UserID: user.ID.String(),
			Email:  user.Email,
			Role:   user.Role,
		},
		Token:     stored.Token.String(),
		ExpiresAt: stored.ExpiresAt,
	}
}
