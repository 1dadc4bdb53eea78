package auth

import (
	"errors"
	"fmt"

	"github.com/pro4tech/assistant/internal/apierr"
)

// Context is the process-wide authentication state, built once at startup
// and injected into every component that needs the caller's identity.
// Screens never re-read the token store themselves.
type Context struct {
	token  string
	userID int
	role   string
	err    error
}

// NewContext loads the token from the store and resolves identity claims.
// An absent token yields a context whose accessors all report
// ErrUnauthenticated rather than a construction failure, so the caller
// can still reach the parts of the app that work logged out.
func NewContext(store *TokenStore) *Context {
	token, err := store.Load()
	if err != nil {
		if errors.Is(err, apierr.ErrUnauthenticated) {
			return &Context{err: apierr.ErrUnauthenticated}
		}
		return &Context{err: fmt.Errorf("failed to load token: %w", err)}
	}

	userID, err := ResolveUserID(token)
	if err != nil {
		// Token exists but carries no usable identity; treat as
		// unauthenticated rather than propagating a half-usable state.
		return &Context{err: fmt.Errorf("%w: %v", apierr.ErrUnauthenticated, err)}
	}

	return &Context{
		token:  token,
		userID: userID,
		role:   ResolveRole(token),
	}
}

// NewStaticContext builds a context from known values, for tests and for
// injecting a token handed over by an external login flow.
func NewStaticContext(token string, userID int, role string) *Context {
	return &Context{token: token, userID: userID, role: role}
}

// Token returns the bearer token
func (c *Context) Token() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.token, nil
}

// UserID returns the numeric user id resolved from the token
func (c *Context) UserID() (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.userID, nil
}

// Role returns the role claim, empty when unauthenticated or absent
func (c *Context) Role() string {
	return c.role
}

// IsAdmin reports whether the current user holds the admin role
func (c *Context) IsAdmin() bool {
	return c.err == nil && c.role == "admin"
}

// Err returns the authentication error, nil when a usable identity exists
func (c *Context) Err() error {
	return c.err
}
