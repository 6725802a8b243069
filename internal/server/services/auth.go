// Package services contains the backend business logic on top of the
// repositories: authentication, notifications, profiles, and onboarding.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wealthboard/wealthboard/internal/server/auth"
	"github.com/wealthboard/wealthboard/internal/server/config"
	"github.com/wealthboard/wealthboard/internal/server/models"
	"github.com/wealthboard/wealthboard/internal/server/repositories/refreshtokens"
	"github.com/wealthboard/wealthboard/internal/server/repositories/users"
	"github.com/wealthboard/wealthboard/internal/shared"
)

// TokenPair is the result of a successful sign-in or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

const (
	signInWindow      = time.Minute
	signInMaxAttempts = 5
)

// Auth implements sign-up, sign-in with failure classification, sign-out,
// and refresh-token rotation.
type Auth struct {
	repo             users.Repository
	refreshTokenRepo refreshtokens.Repository
	jwtSecret        []byte
	accessValidity   time.Duration
	refreshValidity  time.Duration

	// Failed sign-in attempts per email, pruned to the sliding window.
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

// NewAuth constructs the auth service from its repositories and config.
func NewAuth(repo users.Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config) *Auth {
	return &Auth{
		repo:             repo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        []byte(cfg.SecretKey),
		accessValidity:   cfg.AccessTokenValidityDuration,
		refreshValidity:  cfg.RefreshTokenValidityDuration,
		attempts:         make(map[string][]time.Time),
		now:              time.Now,
	}
}

// SignUp creates a new account with a bcrypt password hash. The account does
// not imply a completed investor profile; onboarding happens separately.
func (s *Auth) SignUp(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, shared.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hash error: %w", err)
	}

	user := &models.User{
		Email:          email,
		PasswordHash:   string(hash),
		DisplayName:    displayName,
		EmailConfirmed: true,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrorEmailTaken) {
			return nil, shared.ErrorEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// SignIn authenticates email/password and issues a token pair. Failures are
// classified: unknown email and wrong password both map to
// shared.ErrorInvalidCredentials so callers cannot probe for accounts;
// an unconfirmed email and a tripped rate limit get their own sentinels.
func (s *Auth) SignIn(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.throttled(email) {
		return nil, nil, shared.ErrorRateLimited
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			s.recordAttempt(email)
			return nil, nil, shared.ErrorInvalidCredentials
		}
		return nil, nil, shared.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordAttempt(email)
		return nil, nil, shared.ErrorInvalidCredentials
	}

	if !user.EmailConfirmed {
		return nil, nil, shared.ErrorEmailNotConfirmed
	}

	s.clearAttempts(email)

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, shared.ErrorInternal
	}

	return user, pair, nil
}

// SignOut invalidates the given refresh token. Unknown tokens are a no-op:
// sign-out must succeed from the caller's perspective.
func (s *Auth) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokenRepo.Delete(ctx, refreshToken)
}

// Refresh rotates a refresh token: verifies it, deletes it, and issues a
// fresh pair for its user.
func (s *Auth) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	row, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, nil, shared.ErrorUnauthorized
		}
		return nil, nil, shared.ErrorInternal
	}

	if s.now().After(row.Expires) {
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, nil, shared.ErrRefreshTokenExpired
	}

	user, err := s.repo.GetByID(ctx, row.UserID)
	if err != nil {
		return nil, nil, shared.ErrorInternal
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, nil, shared.ErrorInternal
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, shared.ErrorInternal
	}

	return user, pair, nil
}

// UserIDFromAccessToken verifies a bearer token and returns the user id.
func (s *Auth) UserIDFromAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// AccessTokenValidity reports the configured access-token lifetime.
func (s *Auth) AccessTokenValidity() time.Duration {
	return s.accessValidity
}

func (s *Auth) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessValidity)
	if err != nil {
		return nil, err
	}

	refreshToken, err := shared.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Create(ctx, user.ID, refreshToken, s.refreshValidity); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    s.now().Add(s.accessValidity),
	}, nil
}

func (s *Auth) throttled(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pruneLocked(email)) >= signInMaxAttempts
}

func (s *Auth) recordAttempt(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[email] = append(s.pruneLocked(email), s.now())
}

func (s *Auth) clearAttempts(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, email)
}

func (s *Auth) pruneLocked(email string) []time.Time {
	cutoff := s.now().Add(-signInWindow)
	kept := s.attempts[email][:0]
	for _, at := range s.attempts[email] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	s.attempts[email] = kept
	return kept
}
