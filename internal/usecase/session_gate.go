package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type SessionState int

const (
	SessionUnknown SessionState = iota
	SessionAnonymous
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// SessionSnapshot is the latest session state seen by a gate.
type SessionSnapshot struct {
	State   SessionState
	Session *Session
	IsAdmin bool
}

// SessionGate holds one client's session snapshot and the admin flag
// derived from it. It keeps no history and no persistence of its own.
type SessionGate struct {
	auth   AuthBackend
	policy AdminPolicy
	log    *zap.Logger

	mu       sync.RWMutex
	snapshot SessionSnapshot
	onChange []func(SessionSnapshot)
}

func NewSessionGate(auth AuthBackend, policy AdminPolicy, log *zap.Logger) *SessionGate {
	return &SessionGate{
		auth:   auth,
		policy: policy,
		log:    log.With(zap.String("service", "session")),
	}
}

// Restore resolves an existing token. An empty or dead token leaves the
// gate anonymous. Backend failures also leave it anonymous and are returned.
func (g *SessionGate) Restore(ctx context.Context, token string) error {
	if token == "" {
		g.set(nil)
		return nil
	}

	session, err := g.auth.Resolve(ctx, token)
	if err != nil {
		g.log.Warn("Session resolve failed, continuing anonymous", zap.Error(err))
		g.set(nil)
		return unavailable("resolve session", err)
	}

	g.set(session)
	return nil
}

// SignIn authenticates with the backend. On failure the state is unchanged.
func (g *SessionGate) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := g.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	g.set(session)
	return session, nil
}

// SignUp registers and signs in. On failure the state is unchanged.
func (g *SessionGate) SignUp(ctx context.Context, email, password string) (*Session, error) {
	session, err := g.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	g.set(session)
	return session, nil
}

func (g *SessionGate) SignOut(ctx context.Context) error {
	g.mu.RLock()
	session := g.snapshot.Session
	g.mu.RUnlock()

	if session == nil {
		return ErrUnauthenticated
	}

	if err := g.auth.SignOut(ctx, session.Token); err != nil {
		return err
	}
	g.set(nil)
	return nil
}

// Watch follows backend transitions of this gate's token, such as a sign-out
// issued from another client.
func (g *SessionGate) Watch() Unsubscribe {
	return g.auth.OnSessionChange(func(ev SessionEvent) {
		g.mu.RLock()
		current := g.snapshot.Session
		g.mu.RUnlock()

		if current == nil || current.Token != ev.Token {
			return
		}
		g.set(ev.Session)
	})
}

// OnChange registers fn to run after every transition.
func (g *SessionGate) OnChange(fn func(SessionSnapshot)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = append(g.onChange, fn)
}

func (g *SessionGate) Snapshot() SessionSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

func (g *SessionGate) Identity() (Identity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.snapshot.Session == nil {
		return Identity{}, false
	}
	return g.snapshot.Session.Identity, true
}

func (g *SessionGate) IsAdmin() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot.IsAdmin
}

func (g *SessionGate) set(session *Session) {
	next := SessionSnapshot{State: SessionAnonymous}
	if session != nil {
		copied := *session
		next = SessionSnapshot{
			State:   SessionAuthenticated,
			Session: &copied,
			IsAdmin: g.policy != nil && g.policy.IsAdmin(copied.Identity),
		}
	}

	g.mu.Lock()
	g.snapshot = next
	listeners := append(([]func(SessionSnapshot))(nil), g.onChange...)
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

type gateKey struct{}

// WithGate attaches the request's session gate to ctx
func WithGate(ctx context.Context, gate *SessionGate) context.Context {
	return context.WithValue(ctx, gateKey{}, gate)
}

// GateFromContext returns the gate set by the session middleware
func GateFromContext(ctx context.Context) (*SessionGate, bool) {
	gate, ok := ctx.Value(gateKey{}).(*SessionGate)
	return gate, ok && gate != nil
}
