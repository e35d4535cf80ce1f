package gateway

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/osanchezp/ecotrack/internal/models"
)

// AuthGateway performs login and logout against the backend. It neither
// reads nor writes session state; callers own the token lifecycle.
type AuthGateway struct {
	transport
}

// NewAuthGateway constructs an AuthGateway for the given base URL. A nil
// client gets a default with DefaultTimeout; a nil logger is replaced by
// a no-op one.
func NewAuthGateway(baseURL string, client *http.Client, logger *zap.Logger) *AuthGateway {
	return &AuthGateway{transport: newTransport(baseURL, client, logger)}
}

// Login exchanges credentials for a token. A 200 yields the token from the
// response body and ok=true; any other status yields ok=false with no
// error, matching the backend contract where a non-200 login is a valid
// negative outcome, not a failure. Only network-level problems return an
// error.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (token string, ok bool, err error) {
	status, body, err := g.do(ctx, http.MethodPost, "/auth/login", nil, "", models.Credentials{Email: email, Password: password})
	if err != nil {
		return "", false, err
	}
	if status != http.StatusOK {
		return "", false, nil
	}
	return strings.TrimSpace(string(body)), true, nil
}

// Logout invalidates the token server-side. A 204 reports true; any other
// status reports false without an error. Only network-level problems
// return an error.
func (g *AuthGateway) Logout(ctx context.Context, token string) (bool, error) {
	status, _, err := g.do(ctx, http.MethodDelete, "/auth/logout", nil, token, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusNoContent, nil
}
