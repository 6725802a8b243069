package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wealthboard/wealthboard/internal/remote"
)

// ---- fakes ----

type fakeAuth struct {
	session *remote.Session

	signInErr  error
	signOutErr error

	listeners []func(*remote.Session)

	signInCalls  int
	signOutCalls int
}

func (f *fakeAuth) GetSession(ctx context.Context) (*remote.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*remote.Session, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.session = &remote.Session{UserID: "u-" + email, Email: email, Token: "tok"}
	return f.session, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*remote.Session, error) {
	f.session = &remote.Session{UserID: "u-" + email, Email: email, Token: "tok"}
	return f.session, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.signOutCalls++
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.session = nil
	return nil
}

func (f *fakeAuth) OnAuthStateChange(fn func(*remote.Session)) func() {
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeAuth) fireChange(sess *remote.Session) {
	f.session = sess
	for _, fn := range f.listeners {
		fn(sess)
	}
}

// fakeTables serves the two onboarding collections from in-memory maps.
type fakeTables struct {
	investorsByUser     map[string]string // user id -> investor id
	profilesByInvestor  map[string]bool
	investorLookupErr   error
	profileLookupErr    error
	investorLookupCalls int
}

func newFakeTables() *fakeTables {
	return &fakeTables{investorsByUser: map[string]string{}, profilesByInvestor: map[string]bool{}}
}

func (f *fakeTables) MaybeSingle(ctx context.Context, collection string, filters []remote.Filter, columns ...string) (remote.Row, error) {
	switch collection {
	case "investors":
		f.investorLookupCalls++
		if f.investorLookupErr != nil {
			return nil, f.investorLookupErr
		}
		id, ok := f.investorsByUser[filters[0].Value.(string)]
		if !ok {
			return nil, nil
		}
		return remote.Row{"id": id}, nil
	case "investment_profiles":
		if f.profileLookupErr != nil {
			return nil, f.profileLookupErr
		}
		if !f.profilesByInvestor[filters[0].Value.(string)] {
			return nil, nil
		}
		return remote.Row{"id": "ip-1"}, nil
	default:
		return nil, errors.New("unknown collection")
	}
}

func (f *fakeTables) Select(ctx context.Context, collection string, filters []remote.Filter, orderBy string, desc bool, limit int) ([]remote.Row, error) {
	return nil, nil
}

func (f *fakeTables) Upsert(ctx context.Context, collection string, row remote.Row, conflictColumn string) error {
	return nil
}

func (f *fakeTables) Delete(ctx context.Context, collection string, filters []remote.Filter) error {
	return nil
}

func newStore(auth *fakeAuth, tables *fakeTables) *Store {
	return NewStore(auth, tables, nil)
}

// ---- tests ----

func TestSignIn_InvalidCredentialsMessage(t *testing.T) {
	auth := &fakeAuth{signInErr: &remote.AuthError{Code: remote.CodeInvalidCredentials, Message: "invalid login credentials"}}
	store := newStore(auth, newFakeTables())

	err := store.SignIn(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	require.Equal(t, MsgInvalidCredentials, err.Error())
	require.Nil(t, store.State().Session, "failed sign-in must not mutate session state")
}

func TestSignIn_UnrecognizedErrorFallsBack(t *testing.T) {
	auth := &fakeAuth{signInErr: errors.New("TLS handshake timeout")}
	store := newStore(auth, newFakeTables())

	err := store.SignIn(context.Background(), "alice@example.com", "pw")
	require.Error(t, err)
	require.Equal(t, MsgUnexpected, err.Error())
}

func TestSignIn_SuccessComputesOnboarding(t *testing.T) {
	auth := &fakeAuth{}
	tables := newFakeTables()
	tables.investorsByUser["u-alice@example.com"] = "inv-1"
	tables.profilesByInvestor["inv-1"] = true
	store := newStore(auth, tables)

	require.NoError(t, store.SignIn(context.Background(), "alice@example.com", "pw"))

	state := store.State()
	require.NotNil(t, state.Session)
	require.Equal(t, OnboardingComplete, state.Onboarding)
}

func TestCheckOnboardingStatus_NoUserShortCircuits(t *testing.T) {
	tables := newFakeTables()
	store := newStore(&fakeAuth{}, tables)

	status := store.CheckOnboardingStatus(context.Background())
	require.Equal(t, OnboardingUnknown, status)
	require.Zero(t, tables.investorLookupCalls, "no remote call without a user")
}

func TestCheckOnboardingStatus_MissingInvestorIncomplete(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{UserID: "u-1"}}
	store := newStore(auth, newFakeTables())
	store.Init(context.Background())

	require.Equal(t, OnboardingIncomplete, store.State().Onboarding)
}

func TestCheckOnboardingStatus_MissingProfileIncomplete(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{UserID: "u-1"}}
	tables := newFakeTables()
	tables.investorsByUser["u-1"] = "inv-1"
	store := newStore(auth, tables)
	store.Init(context.Background())

	require.Equal(t, OnboardingIncomplete, store.State().Onboarding)
}

func TestCheckOnboardingStatus_FailClosedOnInvestorError(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{UserID: "u-1"}}
	tables := newFakeTables()
	tables.investorLookupErr = errors.New("connection reset")
	store := newStore(auth, tables)

	store.Init(context.Background())

	// Never throws; resolves to incomplete.
	require.Equal(t, OnboardingIncomplete, store.State().Onboarding)
}

func TestCheckOnboardingStatus_FailClosedOnProfileError(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{UserID: "u-1"}}
	tables := newFakeTables()
	tables.investorsByUser["u-1"] = "inv-1"
	tables.profileLookupErr = errors.New("connection reset")
	store := newStore(auth, tables)

	require.Equal(t, OnboardingIncomplete, store.CheckOnboardingStatus(context.Background()))
}

func TestCheckOnboardingStatus_Idempotent(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{UserID: "u-1"}}
	tables := newFakeTables()
	tables.investorsByUser["u-1"] = "inv-1"
	tables.profilesByInvestor["inv-1"] = true
	store := newStore(auth, tables)
	store.Init(context.Background())

	first := store.CheckOnboardingStatus(context.Background())
	second := store.CheckOnboardingStatus(context.Background())
	require.Equal(t, first, second)
	require.Equal(t, OnboardingComplete, second)
}

func TestSignOut_ClearsSessionAndResetsOnboarding(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{UserID: "u-1"}}
	tables := newFakeTables()
	tables.investorsByUser["u-1"] = "inv-1"
	tables.profilesByInvestor["inv-1"] = true
	store := newStore(auth, tables)
	store.Init(context.Background())
	require.Equal(t, OnboardingComplete, store.State().Onboarding)

	store.SignOut(context.Background())

	state := store.State()
	require.Nil(t, state.Session)
	require.Equal(t, OnboardingUnknown, state.Onboarding)
}

func TestSignOut_SucceedsDespiteProviderFailure(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{UserID: "u-1"}, signOutErr: errors.New("network down")}
	store := newStore(auth, newFakeTables())
	store.Init(context.Background())

	store.SignOut(context.Background())

	require.Nil(t, store.State().Session, "local session cleared even when provider sign-out fails")
}

func TestAuthStateChange_RecomputesOnboardingOnIdentityChange(t *testing.T) {
	auth := &fakeAuth{}
	tables := newFakeTables()
	tables.investorsByUser["u-2"] = "inv-2"
	tables.profilesByInvestor["inv-2"] = true
	store := newStore(auth, tables)
	store.Init(context.Background())
	require.Equal(t, OnboardingUnknown, store.State().Onboarding)

	auth.fireChange(&remote.Session{UserID: "u-2", Email: "b@example.com", Token: "t2"})

	state := store.State()
	require.Equal(t, "u-2", state.Session.UserID)
	require.Equal(t, OnboardingComplete, state.Onboarding)
}

func TestSubscribe_NotifiedAndUnsubscribed(t *testing.T) {
	auth := &fakeAuth{}
	store := newStore(auth, newFakeTables())

	var got []State
	unsub := store.Subscribe(func(s State) { got = append(got, s) })

	store.Init(context.Background())
	require.NotEmpty(t, got)

	seen := len(got)
	unsub()
	store.SignOut(context.Background())
	require.Len(t, got, seen, "no notifications after unsubscribe")
}
