// Package controller wraps the gateways with pre-network validation and
// session-aware dispatch. Controllers are the only layer that reads the
// session store; gateways stay stateless.
package controller

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/osanchezp/ecotrack/internal/errors"
	"github.com/osanchezp/ecotrack/internal/session"
)

// AuthAPI is the slice of the auth gateway the controller consumes.
type AuthAPI interface {
	// Login exchanges credentials for a token; ok is false when the
	// backend declined without a transport failure.
	Login(ctx context.Context, email, password string) (token string, ok bool, err error)
	// Logout invalidates the token server-side.
	Logout(ctx context.Context, token string) (bool, error)
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// AuthController manages the login/logout flow and is the only writer of
// the session store.
type AuthController struct {
	gateway AuthAPI
	store   *session.Store
	logger  *zap.Logger
}

// NewAuthController constructs an AuthController. A nil logger is replaced
// by a no-op one.
func NewAuthController(gateway AuthAPI, store *session.Store, logger *zap.Logger) *AuthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthController{gateway: gateway, store: store, logger: logger}
}

// Login validates the credentials, authenticates against the backend, and
// on success records token and email in the session store. A backend
// refusal (any non-200) surfaces as an authentication error; a transport
// failure surfaces as a transport error so callers can tell bad
// credentials from an unreachable server.
func (c *AuthController) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.Validation("email must not be empty")
	}
	if password == "" {
		return apperrors.Validation("password must not be empty")
	}
	if !emailPattern.MatchString(email) {
		return apperrors.Validation("email format is not valid")
	}

	token, ok, err := c.gateway.Login(ctx, email, password)
	if err != nil {
		c.logger.Warn("login request failed", zap.Error(err))
		return apperrors.Wrap(err, "could not reach the server")
	}
	if !ok {
		return apperrors.Authentication("invalid credentials", nil)
	}

	c.store.SetSession(token, email)
	c.logger.Info("login succeeded", zap.String("email", email))
	return nil
}

// Logout ends the session. The local session is cleared unconditionally
// before the remote outcome is known: the user is always logged out
// locally even if the server call fails. The returned error reflects the
// remote outcome only.
func (c *AuthController) Logout(ctx context.Context) error {
	token, _ := c.store.Snapshot()
	if token == "" {
		return apperrors.NoSession()
	}

	c.store.Clear()

	ok, err := c.gateway.Logout(ctx, token)
	if err != nil {
		c.logger.Warn("remote logout failed", zap.Error(err))
		return apperrors.Wrap(err, "could not log out on the server")
	}
	if !ok {
		c.logger.Warn("remote logout declined by server")
		return apperrors.TransportCause("server declined the logout", nil)
	}
	return nil
}

// HasActiveSession reports whether a session token is present.
func (c *AuthController) HasActiveSession() bool {
	return c.store.IsAuthenticated()
}

// CurrentUserEmail returns the logged-in user's email, or "".
func (c *AuthController) CurrentUserEmail() string {
	return c.store.UserEmail()
}
