// Package auth owns the in-memory session of the console: it boots from the
// session store, signs users in and out through the REST API, and answers
// feature-access checks.
package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hongminglow/vault-console/internal/authapi"
	"github.com/hongminglow/vault-console/internal/models"
	"github.com/hongminglow/vault-console/internal/models/dto"
	"github.com/hongminglow/vault-console/internal/session"
)

const (
	SigninRoute  = "/signin"
	LandingRoute = "/dashboard"
)

const (
	msgSigninOK     = "Signed in successfully"
	msgSigninFailed = "Failed to sign in"
	msgSigninError  = "Failed to sign in. Please check your credentials."
	msgSignupOK     = "Account created successfully. Please sign in."
	msgSignupFailed = "Failed to create account"
	msgSignupError  = "Failed to create account. Please try again."
	msgLogoutOK     = "Logged out successfully"
)

// AuthAPI is the part of the REST client the controller depends on.
type AuthAPI interface {
	SignIn(ctx context.Context, req dto.SigninRequest) (*dto.AuthResponse, error)
	SignUp(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error)
}

// Navigator moves the application to another route.
type Navigator interface {
	Navigate(path string)
}

// Notifier shows transient, non-blocking messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Phase is the lifecycle state of the controller.
type Phase int

const (
	Booting Phase = iota
	Unauthenticated
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case Booting:
		return "booting"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	User            *models.User
	Role            models.RoleID
	ExpiryDate      *string
	IsAppValid      bool
	Loading         bool
	IsAuthenticated bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithFeatureAccessBypass makes CheckFeatureAccess always grant access.
// Only development configurations may enable it.
func WithFeatureAccessBypass(enabled bool) Option {
	return func(c *Controller) { c.bypassAccess = enabled }
}

// WithLogger sets the controller logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// Controller holds the one session of an application run. Construct it once
// at the application root and hand it to the guard and commands.
type Controller struct {
	api    AuthAPI
	store  *session.Store
	nav    Navigator
	notify Notifier
	log    *zap.Logger

	bypassAccess bool

	mu       sync.RWMutex
	loading  bool
	user     *models.User
	role     models.RoleID
	expiry   *string
	appValid bool
	token    string
}

// NewController returns a controller in the Booting phase. Call Boot before use.
func NewController(api AuthAPI, store *session.Store, nav Navigator, notify Notifier, opts ...Option) *Controller {
	c := &Controller{
		api:     api,
		store:   store,
		nav:     nav,
		notify:  notify,
		log:     zap.NewNop(),
		loading: true,
		role:    models.RoleGuest,
		// observed behavior is valid-by-default even though logout resets to false
		appValid: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("auth")
	return c
}

// Boot restores the user and role from the session store and leaves the
// Booting phase. It never talks to the backend. Calls after the first are no-ops.
func (c *Controller) Boot(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loading {
		return
	}
	defer func() { c.loading = false }()

	stored, err := c.store.Load(ctx)
	if err != nil {
		c.log.Error("failed to restore session", zap.Error(err))
		return
	}
	if stored == nil {
		return
	}
	user := stored.User
	c.user = &user
	c.role = stored.Role
	c.log.Debug("session restored", zap.Int64("user_id", user.ID), zap.Stringer("role", stored.Role))
}

// Signin authenticates against the backend and starts a session. State is
// untouched on any failure. Persisting the session is best-effort: a store
// failure is logged and the run stays signed in.
func (c *Controller) Signin(ctx context.Context, creds dto.SigninRequest) bool {
	resp, err := c.api.SignIn(ctx, creds)
	if err != nil {
		c.log.Error("login error", zap.Error(err))
		if msg, ok := authapi.ServerMessage(err); ok {
			c.notify.Error(msg)
		} else {
			c.notify.Error(msgSigninError)
		}
		return false
	}
	if resp == nil {
		c.log.Error("login error: empty response")
		c.notify.Error(msgSigninError)
		return false
	}
	if !resp.Success || len(resp.Data) == 0 {
		c.notify.Error(orDefault(resp.Msg, msgSigninFailed))
		return false
	}

	user := resp.Data[0].Clone()
	role := user.PrimaryRole()
	appValid := true
	if resp.IsAppValid != nil {
		appValid = *resp.IsAppValid
	}

	c.mu.Lock()
	c.user = &user
	c.role = role
	c.expiry = cloneString(resp.ExpiryDate)
	c.appValid = appValid
	c.token = integrityToken(user.ID, appValid, resp.ExpiryDate)
	c.mu.Unlock()

	if err := c.store.Save(ctx, user, role); err != nil {
		c.log.Warn("failed to persist session", zap.Error(err))
	}

	c.log.Info("signed in", zap.Int64("user_id", user.ID), zap.Stringer("role", role))
	c.notify.Success(msgSigninOK)
	c.nav.Navigate(LandingRoute)
	return true
}

// Signup registers a new account. It does not sign the account in.
func (c *Controller) Signup(ctx context.Context, fields dto.SignupRequest) bool {
	resp, err := c.api.SignUp(ctx, fields)
	if err != nil {
		c.log.Error("signup error", zap.Error(err))
		if msg, ok := authapi.ServerMessage(err); ok {
			c.notify.Error(msg)
		} else {
			c.notify.Error(msgSignupError)
		}
		return false
	}
	if resp == nil {
		c.log.Error("signup error: empty response")
		c.notify.Error(msgSignupError)
		return false
	}
	if !resp.Success {
		c.notify.Error(orDefault(resp.Msg, msgSignupFailed))
		return false
	}
	c.notify.Success(msgSignupOK)
	c.nav.Navigate(SigninRoute)
	return true
}

// Logout resets every field and clears the store. Safe to call when signed out.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	c.user = nil
	c.role = models.RoleGuest
	c.expiry = nil
	c.appValid = false
	c.token = ""
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn("failed to clear stored session", zap.Error(err))
	}
	c.notify.Success(msgLogoutOK)
	c.nav.Navigate(SigninRoute)
}

// UpdateUserData replaces the in-memory user and persists it. Role and token
// are not re-derived.
func (c *Controller) UpdateUserData(ctx context.Context, user models.User) error {
	owned := user.Clone()
	c.mu.Lock()
	c.user = &owned
	c.mu.Unlock()
	return c.store.SaveUser(ctx, user)
}

// CheckFeatureAccess reports whether gated features may be used.
func (c *Controller) CheckFeatureAccess() bool {
	if c.bypassAccess {
		return true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil || c.token == "" {
		return false
	}
	if integrityToken(c.user.ID, c.appValid, c.expiry) != c.token {
		c.log.Warn("integrity token mismatch; possible tampering", zap.Int64("user_id", c.user.ID))
		return false
	}
	return c.appValid
}

// Phase reports the current lifecycle state.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch {
	case c.loading:
		return Booting
	case c.user != nil:
		return Authenticated
	default:
		return Unauthenticated
	}
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Snapshot{
		Role:            c.role,
		ExpiryDate:      cloneString(c.expiry),
		IsAppValid:      c.appValid,
		Loading:         c.loading,
		IsAuthenticated: c.user != nil,
	}
	if c.user != nil {
		u := c.user.Clone()
		s.User = &u
	}
	return s
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
