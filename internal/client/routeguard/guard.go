// Package routeguard decides, per navigation, whether to render the
// requested page, show a loading indicator, or redirect. The decision is a
// pure function of (path, session state) and is re-evaluated on every
// navigation.
package routeguard

import "github.com/wealthboard/wealthboard/internal/client/session"

// Well-known application paths.
const (
	LoginPath      = "/login"
	OnboardingPath = "/onboarding"
	DashboardPath  = "/dashboard"
)

// GuardState is the observable state of the guard.
type GuardState string

const (
	StateLoading           GuardState = "loading"
	StateUnauthenticated   GuardState = "unauthenticated"
	StateOnboardingUnknown GuardState = "authenticated-onboarding-unknown"
	StateDecided           GuardState = "authenticated-decided"
)

// Decision tells the shell what to do with the current navigation.
// Exactly one of Render / ShowLoading / RedirectTo applies.
type Decision struct {
	State       GuardState
	Render      bool
	ShowLoading bool
	RedirectTo  string
}

// Decide evaluates the guard for a navigation to path given the current
// session snapshot.
func Decide(path string, state session.State) Decision {
	// While the session itself is still resolving, render nothing but a
	// loading indicator.
	if state.Loading {
		return Decision{State: StateLoading, ShowLoading: true}
	}

	if state.Session == nil {
		return Decision{State: StateUnauthenticated, RedirectTo: LoginPath}
	}

	// Signed in, but the onboarding lookups have not resolved yet.
	if state.Onboarding == session.OnboardingUnknown {
		return Decision{State: StateOnboardingUnknown, ShowLoading: true}
	}

	if path == OnboardingPath && state.Onboarding == session.OnboardingComplete {
		return Decision{State: StateDecided, RedirectTo: DashboardPath}
	}
	if path == DashboardPath && state.Onboarding == session.OnboardingIncomplete {
		return Decision{State: StateDecided, RedirectTo: OnboardingPath}
	}

	return Decision{State: StateDecided, Render: true}
}
