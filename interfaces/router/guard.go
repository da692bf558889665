package router

import (
	"context"
	"net/url"

	"go.uber.org/zap"
)

// Authenticator is the session state the guard consults.
type Authenticator interface {
	HasToken() bool
	HasProfile() bool
	IsAuthenticated() bool
	// LoadProfile fetches the profile for the stored token. Implementations
	// log out on failure before returning the error.
	LoadProfile(ctx context.Context) error
}

// AuthState is the guard's view of the session.
type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticated
)

func (s AuthState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// ProfileCheck selects when a missing profile is fetched before navigation.
type ProfileCheck int

const (
	// ProfileCheckAuthRoutes fetches only before auth-required routes.
	ProfileCheckAuthRoutes ProfileCheck = iota
	// ProfileCheckAlways fetches before every navigation.
	ProfileCheckAlways
)

// GuardConfig holds the per-app guard rules.
type GuardConfig struct {
	LoginPath     string
	DashboardPath string
	ProfileCheck  ProfileCheck
	// AbortOnProfileError stops navigation when the profile fetch fails.
	// Otherwise the guard continues with the (now logged out) session.
	AbortOnProfileError bool
}

// AdminGuardConfig returns the admin console rules.
func AdminGuardConfig() GuardConfig {
	return GuardConfig{
		LoginPath:           "/login",
		DashboardPath:       "/dashboard",
		ProfileCheck:        ProfileCheckAuthRoutes,
		AbortOnProfileError: true,
	}
}

// WorkspaceGuardConfig returns the workspace rules.
func WorkspaceGuardConfig() GuardConfig {
	return GuardConfig{
		LoginPath:     "/login",
		DashboardPath: "/dashboard",
		ProfileCheck:  ProfileCheckAlways,
	}
}

// Decision is the outcome of a guard evaluation.
type Decision struct {
	Proceed  bool
	Redirect string
	Reason   string
}

// Guard decides whether a resolved location may be shown.
type Guard struct {
	auth   Authenticator
	cfg    GuardConfig
	logger *zap.Logger
}

func NewGuard(auth Authenticator, cfg GuardConfig, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{auth: auth, cfg: cfg, logger: logger}
}

// Config returns the guard rules.
func (g *Guard) Config() GuardConfig {
	return g.cfg
}

// State returns the current session state.
func (g *Guard) State() AuthState {
	if g.auth.IsAuthenticated() {
		return Authenticated
	}
	return Unauthenticated
}

// Evaluate runs the profile pre-condition and then the auth rules. It
// returns an error only when the profile fetch fails and the app aborts on
// that.
func (g *Guard) Evaluate(ctx context.Context, to Location) (Decision, error) {
	if g.needsProfile(to) {
		if err := g.auth.LoadProfile(ctx); err != nil {
			if g.cfg.AbortOnProfileError {
				return Decision{}, err
			}
			g.logger.Warn("Profile fetch failed, continuing signed out",
				zap.String("to", to.FullPath),
				zap.Error(err),
			)
		}
	}

	state := g.State()
	switch {
	case to.Route.RequiresAuth && state == Unauthenticated:
		q := url.Values{}
		q.Set("redirect", to.FullPath)
		return Decision{Redirect: g.cfg.LoginPath + "?" + q.Encode(), Reason: "login"}, nil
	case to.Route.GuestOnly && state == Authenticated:
		return Decision{Redirect: g.cfg.DashboardPath, Reason: "dashboard"}, nil
	default:
		return Decision{Proceed: true}, nil
	}
}

func (g *Guard) needsProfile(to Location) bool {
	if !g.auth.HasToken() || g.auth.HasProfile() {
		return false
	}
	return g.cfg.ProfileCheck == ProfileCheckAlways || to.Route.RequiresAuth
}
