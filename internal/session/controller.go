// Package session orchestrates the authenticated-session lifecycle:
// rehydration from the persisted cookie, login/registration, and logout.
package session

import (
	"context"
	"log/slog"
	"sync"

	"todocli/internal/api"
	"todocli/internal/credstore"
)

// TokenTTLDays is the cookie lifetime applied on login and registration.
const TokenTTLDays = 14

// API is the subset of the api client the controller needs.
type API interface {
	Login(ctx context.Context, email, password string) (api.User, error)
	Register(ctx context.Context, email, password string) (api.User, error)
	FetchProfile(ctx context.Context, token string) (api.Profile, error)
}

// State is the controller's lifecycle state.
type State int

const (
	// StateAnonymous means no session is active.
	StateAnonymous State = iota

	// StateAuthenticating means a rehydration profile fetch is in flight.
	StateAuthenticating

	// StateAuthenticated means a profile is held.
	StateAuthenticated

	// StateError means the last login or registration attempt failed.
	// The session itself is still anonymous.
	StateError
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the controller state.
type Snapshot struct {
	State   State
	Profile api.Profile

	// Err is the failure behind StateError.
	Err error

	// RehydrateErr records why the last rehydration fell back to
	// anonymous. The user-facing behavior does not distinguish an
	// expired token from a network failure, but the reason is kept.
	RehydrateErr error
}

// Controller owns the in-memory session state. Safe for use from the
// poll loop and command handlers concurrently.
type Controller struct {
	api    API
	creds  *credstore.Store
	logger *slog.Logger

	mu           sync.Mutex
	state        State
	profile      api.Profile
	err          error
	rehydrateErr error
}

// NewController creates a controller in the Anonymous state.
func NewController(client API, creds *credstore.Store) *Controller {
	return &Controller{
		api:    client,
		creds:  creds,
		logger: slog.Default(),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:        c.state,
		Profile:      c.profile,
		Err:          c.err,
		RehydrateErr: c.rehydrateErr,
	}
}

// Token returns the persisted session token, if any.
func (c *Controller) Token() (string, bool) {
	return c.creds.Get()
}

// Rehydrate reconstructs the session from the persisted token. Without a
// token it is a no-op. On a failed profile fetch the controller falls back
// to Anonymous, leaves the stale cookie in place, records the reason, and
// returns the failure.
func (c *Controller) Rehydrate(ctx context.Context) error {
	token, ok := c.creds.Get()
	if !ok {
		return nil
	}

	c.setState(StateAuthenticating)

	profile, err := c.api.FetchProfile(ctx, token)
	if err != nil {
		c.logger.Debug("rehydration failed", "error", err)
		c.mu.Lock()
		c.state = StateAnonymous
		c.profile = api.Profile{}
		c.rehydrateErr = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.profile = profile
	c.rehydrateErr = nil
	c.mu.Unlock()
	return nil
}

// Login authenticates and persists the returned token with a 14-day
// expiry. On failure the state becomes Error and the failure is re-raised
// so the caller can surface it inline.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	user, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.fail(err)
		return err
	}
	return c.establish(user)
}

// Register creates an account and chains into login; success and failure
// handling are identical to Login.
func (c *Controller) Register(ctx context.Context, email, password string) error {
	user, err := c.api.Register(ctx, email, password)
	if err != nil {
		c.fail(err)
		return err
	}
	return c.establish(user)
}

// Logout clears the persisted token and returns to Anonymous. The server
// is not informed; invalidation is purely local.
func (c *Controller) Logout() error {
	err := c.creds.Remove()

	c.mu.Lock()
	c.state = StateAnonymous
	c.profile = api.Profile{}
	c.err = nil
	c.mu.Unlock()
	return err
}

func (c *Controller) establish(user api.User) error {
	if err := c.creds.Set(user.Token, TokenTTLDays); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.profile = api.Profile{Email: user.Email, Token: user.Token}
	c.err = nil
	c.mu.Unlock()
	return nil
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.state = StateError
	c.err = err
	c.mu.Unlock()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
