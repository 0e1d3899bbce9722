package usecase

import (
	"time"

	"movie-galaxy/internal/data/repository"
	"movie-galaxy/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      *AuthService
	Catalog   *CatalogStore
	Comments  *CommentSync
	Bootstrap *Bootstrap
	Policy    AdminPolicy
}

// NewService builds every component from explicitly passed collaborators
func NewService(
	repo *repository.Repository,
	catalog CatalogBackend,
	comments CommentBackend,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	catalogStore := NewCatalogStore(catalog, config.Catalog.FilterCacheSize, log)
	commentSync := NewCommentSync(comments, time.Now, log)

	return &Service{
		Auth:      NewAuthService(repo.User, repo.Session, config, log),
		Catalog:   catalogStore,
		Comments:  commentSync,
		Bootstrap: NewBootstrap(catalogStore, commentSync, log),
		Policy: AnyPolicy{
			NewEmailPolicy(config.Session.AdminEmails...),
			RolePolicy{},
		},
	}
}

// NewGate returns a fresh per-client session gate
func (s *Service) NewGate(log *zap.Logger) *SessionGate {
	return NewSessionGate(s.Auth, s.Policy, log)
}
