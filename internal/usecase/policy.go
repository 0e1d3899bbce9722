package usecase

import (
	"strings"

	"movie-galaxy/internal/data/entity"
)

// AdminPolicy decides whether an identity may run privileged operations.
type AdminPolicy interface {
	IsAdmin(id Identity) bool
}

// EmailPolicy grants admin to an allow-list of emails, compared case-insensitively.
type EmailPolicy struct {
	emails map[string]struct{}
}

func NewEmailPolicy(emails ...string) *EmailPolicy {
	p := &EmailPolicy{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			p.emails[e] = struct{}{}
		}
	}
	return p
}

func (p *EmailPolicy) IsAdmin(id Identity) bool {
	if id.Email == "" {
		return false
	}
	_, ok := p.emails[normalizeEmail(id.Email)]
	return ok
}

// RolePolicy grants admin to identities carrying the admin role claim.
type RolePolicy struct{}

func (RolePolicy) IsAdmin(id Identity) bool {
	return id.Role == entity.RoleAdmin
}

// AnyPolicy grants admin when any member does.
type AnyPolicy []AdminPolicy

func (ps AnyPolicy) IsAdmin(id Identity) bool {
	for _, p := range ps {
		if p != nil && p.IsAdmin(id) {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
