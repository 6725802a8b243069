// Package session holds the client-side source of truth for "who is signed
// in" and "have they completed onboarding". Components read and subscribe to
// one shared Store; all mutation goes through the Store's own methods.
package session

import (
	"context"
	"sync"

	"github.com/wealthboard/wealthboard/internal/logging"
	"github.com/wealthboard/wealthboard/internal/remote"
)

// OnboardingStatus is derived, never stored: unknown until both onboarding
// lookups resolve, complete iff both rows exist.
type OnboardingStatus string

const (
	OnboardingUnknown    OnboardingStatus = "unknown"
	OnboardingIncomplete OnboardingStatus = "incomplete"
	OnboardingComplete   OnboardingStatus = "complete"
)

// State is a snapshot of the store, delivered to subscribers on every change.
type State struct {
	Session    *remote.Session
	Loading    bool
	Onboarding OnboardingStatus
}

// Store wraps the auth provider and tracks the current session, a loading
// flag, and the derived onboarding status.
type Store struct {
	auth   remote.AuthProvider
	tables remote.Table
	logger logging.Logger

	mu          sync.Mutex
	session     *remote.Session
	loading     bool
	onboarding  OnboardingStatus
	subs        map[int]func(State)
	nextSub     int
	unsubscribe func()
}

// NewStore constructs a Store in the loading state. Call Init to resolve the
// initial session and start listening for provider-level auth changes.
func NewStore(auth remote.AuthProvider, tables remote.Table, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Store{
		auth:       auth,
		tables:     tables,
		logger:     logger.With("module", "session_store"),
		loading:    true,
		onboarding: OnboardingUnknown,
		subs:       map[int]func(State){},
	}
}

// Init resolves the initial session, subscribes to auth state changes, and
// computes the onboarding status. A provider failure during the initial
// lookup leaves the store signed out rather than wedged in loading.
func (s *Store) Init(ctx context.Context) {
	sess, err := s.auth.GetSession(ctx)
	if err != nil {
		s.logger.Error(ctx, "initial session lookup failed", "error", err)
		sess = nil
	}

	s.mu.Lock()
	s.session = sess
	s.loading = false
	s.unsubscribe = s.auth.OnAuthStateChange(s.handleAuthChange)
	s.mu.Unlock()
	s.notify()

	s.CheckOnboardingStatus(ctx)
}

// Close detaches the store from provider notifications.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// handleAuthChange re-syncs the session on provider-level changes (background
// token refresh, forced sign-out) and recomputes onboarding when the user
// identity changed.
func (s *Store) handleAuthChange(sess *remote.Session) {
	s.mu.Lock()
	prevUser := ""
	if s.session != nil {
		prevUser = s.session.UserID
	}
	newUser := ""
	if sess != nil {
		newUser = sess.UserID
	}
	s.session = sess
	identityChanged := prevUser != newUser
	s.mu.Unlock()
	s.notify()

	if identityChanged {
		s.CheckOnboardingStatus(context.Background())
	}
}

// SignIn authenticates with the provider. On success the session is stored
// and onboarding status recomputed; on failure the session state is left
// untouched and a classified, user-readable error is returned.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	sess, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Warn(ctx, "sign-in failed", "error", err)
		return &AuthMessageError{Message: ClassifyAuthError(err), Cause: err}
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	s.notify()

	s.CheckOnboardingStatus(ctx)
	return nil
}

// SignUp registers a new account. A fresh account has no investor record, so
// onboarding resolves to incomplete.
func (s *Store) SignUp(ctx context.Context, email, password, displayName string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	metadata := map[string]string{}
	if displayName != "" {
		metadata["display_name"] = displayName
	}

	sess, err := s.auth.SignUp(ctx, email, password, metadata)
	if err != nil {
		s.logger.Warn(ctx, "sign-up failed", "error", err)
		return &AuthMessageError{Message: ClassifyAuthError(err), Cause: err}
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	s.notify()

	s.CheckOnboardingStatus(ctx)
	return nil
}

// SignOut clears the session and resets onboarding to unknown. Provider
// failures are logged and swallowed: from the caller's perspective, sign-out
// always succeeds.
func (s *Store) SignOut(ctx context.Context) {
	if err := s.auth.SignOut(ctx); err != nil {
		s.logger.Warn(ctx, "provider sign-out failed, clearing local session anyway", "error", err)
	}

	s.mu.Lock()
	s.session = nil
	s.onboarding = OnboardingUnknown
	s.mu.Unlock()
	s.notify()
}

// CheckOnboardingStatus recomputes the derived onboarding status. It is
// idempotent and safe to call repeatedly. With no user it short-circuits to
// unknown. The two lookups are sequential — the second needs the investor id
// produced by the first — and any remote error resolves to incomplete
// (fail-closed) rather than propagating: this runs on every auth change and
// must never crash navigation.
func (s *Store) CheckOnboardingStatus(ctx context.Context) OnboardingStatus {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	if sess == nil {
		s.setOnboarding(OnboardingUnknown)
		return OnboardingUnknown
	}

	status := s.resolveOnboarding(ctx, sess.UserID)
	s.setOnboarding(status)
	return status
}

func (s *Store) resolveOnboarding(ctx context.Context, userID string) OnboardingStatus {
	investor, err := s.tables.MaybeSingle(ctx, "investors",
		[]remote.Filter{{Column: "user_id", Value: userID}}, "id")
	if err != nil {
		s.logger.Warn(ctx, "investor lookup failed, treating onboarding as incomplete", "error", err)
		return OnboardingIncomplete
	}
	if investor == nil {
		return OnboardingIncomplete
	}

	investorID, _ := investor["id"].(string)
	if investorID == "" {
		return OnboardingIncomplete
	}

	profile, err := s.tables.MaybeSingle(ctx, "investment_profiles",
		[]remote.Filter{{Column: "investor_id", Value: investorID}}, "id")
	if err != nil {
		s.logger.Warn(ctx, "investment profile lookup failed, treating onboarding as incomplete", "error", err)
		return OnboardingIncomplete
	}
	if profile == nil {
		return OnboardingIncomplete
	}

	return OnboardingComplete
}

// State returns a snapshot of the store.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Session: s.session, Loading: s.loading, Onboarding: s.onboarding}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.notify()
}

func (s *Store) setOnboarding(status OnboardingStatus) {
	s.mu.Lock()
	changed := s.onboarding != status
	s.onboarding = status
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	snapshot := State{Session: s.session, Loading: s.loading, Onboarding: s.onboarding}
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
