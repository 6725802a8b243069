// Package gateway adapts the backend services to the collaborator contracts
// in internal/remote, so the client core can run in-process against the real
// backend logic.
package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/wealthboard/wealthboard/internal/remote"
	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/services"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// AuthGateway implements remote.AuthProvider over services.Auth. It owns the
// current session the way a browser SDK would: one session at a time, held in
// memory, with change notifications fanned out to subscribers.
type AuthGateway struct {
	svc *services.Auth

	mu           sync.Mutex
	session      *remote.Session
	refreshToken string
	listeners    map[int]func(*remote.Session)
	nextListener int
}

// NewAuthGateway constructs an auth provider over the given service.
func NewAuthGateway(svc *services.Auth) *AuthGateway {
	return &AuthGateway{svc: svc, listeners: map[int]func(*remote.Session){}}
}

// GetSession returns the current session, nil when signed out.
func (g *AuthGateway) GetSession(ctx context.Context) (*remote.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, nil
}

// SignInWithPassword authenticates and installs the new session.
func (g *AuthGateway) SignInWithPassword(ctx context.Context, email, password string) (*remote.Session, error) {
	user, pair, err := g.svc.SignIn(ctx, email, password)
	if err != nil {
		return nil, classifyServiceError(err)
	}
	return g.installSession(user, pair), nil
}

// SignUp registers a new account and installs a session for it. The metadata
// map carries optional profile hints; only "display_name" is understood.
func (g *AuthGateway) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*remote.Session, error) {
	if _, err := g.svc.SignUp(ctx, email, password, metadata["display_name"]); err != nil {
		return nil, classifyServiceError(err)
	}
	user, pair, err := g.svc.SignIn(ctx, email, password)
	if err != nil {
		return nil, classifyServiceError(err)
	}
	return g.installSession(user, pair), nil
}

// SignOut invalidates the refresh token and clears the session. Subscribers
// are notified with nil.
func (g *AuthGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	token := g.refreshToken
	g.session = nil
	g.refreshToken = ""
	fns := g.listenersLocked()
	g.mu.Unlock()

	for _, fn := range fns {
		fn(nil)
	}

	return g.svc.SignOut(ctx, token)
}

// Refresh rotates the refresh token and replaces the session, notifying
// subscribers — this is the background-token-refresh path.
func (g *AuthGateway) Refresh(ctx context.Context) (*remote.Session, error) {
	g.mu.Lock()
	token := g.refreshToken
	g.mu.Unlock()

	user, pair, err := g.svc.Refresh(ctx, token)
	if err != nil {
		return nil, classifyServiceError(err)
	}
	return g.installSession(user, pair), nil
}

// OnAuthStateChange registers fn for session-change notifications and
// returns an unsubscribe function.
func (g *AuthGateway) OnAuthStateChange(fn func(*remote.Session)) func() {
	g.mu.Lock()
	id := g.nextListener
	g.nextListener++
	g.listeners[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *AuthGateway) installSession(user *models.User, pair *services.TokenPair) *remote.Session {
	session := &remote.Session{
		UserID: user.ID,
		Email:  user.Email,
		Token:  pair.AccessToken,
		Expiry: pair.ExpiresAt,
	}

	g.mu.Lock()
	g.session = session
	g.refreshToken = pair.RefreshToken
	fns := g.listenersLocked()
	g.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
	return session
}

func (g *AuthGateway) listenersLocked() []func(*remote.Session) {
	fns := make([]func(*remote.Session), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// classifyServiceError maps service sentinels to structured auth errors the
// client can classify without string matching.
func classifyServiceError(err error) error {
	switch {
	case errors.Is(err, shared.ErrorInvalidCredentials):
		return &remote.AuthError{Code: remote.CodeInvalidCredentials, Message: "invalid login credentials"}
	case errors.Is(err, shared.ErrorEmailNotConfirmed):
		return &remote.AuthError{Code: remote.CodeEmailNotConfirmed, Message: "email not confirmed"}
	case errors.Is(err, shared.ErrorRateLimited):
		return &remote.AuthError{Code: remote.CodeRateLimited, Message: "over request rate limit"}
	case errors.Is(err, shared.ErrorEmailTaken):
		return &remote.AuthError{Code: remote.CodeEmailTaken, Message: "email already registered"}
	default:
		return err
	}
}
