// Package gateway implements the typed HTTP operations against the
// waste-management backend. Gateways are stateless: the session token is
// passed in per call and every operation applies the shared status-code
// mapping.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/osanchezp/ecotrack/internal/errors"
)

// DefaultTimeout bounds a single request/response round trip. There is no
// retry layer; a request is attempted exactly once.
const DefaultTimeout = 15 * time.Second

// transport is the shared HTTP plumbing behind every gateway: base URL,
// underlying client, and structured request logging.
type transport struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func newTransport(baseURL string, client *http.Client, logger *zap.Logger) transport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// do performs one request and returns the status code and response body.
// The token, when non-empty, is sent as the Token header; every request
// carries a fresh X-Request-Id for correlation. Network-level failures are
// returned as transport errors; status codes are mapped by the caller.
func (t *transport) do(ctx context.Context, method, path string, query url.Values, token string, body any) (int, []byte, error) {
	endpoint := t.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Token", token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return 0, nil, apperrors.TransportCause("backend unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, apperrors.TransportCause("read response body", err)
	}

	t.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	return resp.StatusCode, data, nil
}

// mapStatus applies the shared status-code taxonomy to a non-2xx response:
// 401 is an authentication failure, 400 a rejected request carrying the
// server message, anything else a generic transport failure. 2xx maps to
// nil. Capacity lookups handle 404 before calling this.
func mapStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return apperrors.Authentication("session is stale or invalid", nil)
	case status == http.StatusBadRequest:
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = "request rejected by server"
		}
		return apperrors.Rejected(msg)
	default:
		return apperrors.Transport(status, fmt.Sprintf("unexpected status %d", status))
	}
}

// decodeList parses a 200 body into a slice, mapping 204 to an empty
// slice per the shared taxonomy.
func decodeList[T any](status int, body []byte) ([]T, error) {
	if status == http.StatusNoContent {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperrors.TransportCause("decode response body", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
