package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("x must not be empty")))
	assert.Equal(t, KindNoSession, KindOf(NoSession()))
	assert.Equal(t, KindAuthentication, KindOf(Authentication("nope", nil)))
	assert.Equal(t, KindRejected, KindOf(Rejected("bad parameter")))
	assert.Equal(t, KindTransport, KindOf(Transport(503, "unexpected status 503")))
	assert.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestWrapPreservesKindAndCause(t *testing.T) {
	cause := Authentication("session is stale or invalid", nil)
	wrapped := Wrap(cause, "session invalid, please re-authenticate")

	assert.Equal(t, KindAuthentication, wrapped.Kind)
	assert.Equal(t, "session invalid, please re-authenticate", wrapped.Message)
	assert.Equal(t, 401, wrapped.Status)
	assert.True(t, stderrors.Is(wrapped, cause))
}

func TestWrapPlainErrorBecomesTransport(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := Wrap(cause, "could not load dumpsters")

	assert.Equal(t, KindTransport, wrapped.Kind)
	assert.True(t, stderrors.Is(wrapped, cause))
}

func TestErrorMessage(t *testing.T) {
	err := Rejected("unknown plant: X")
	assert.Equal(t, "rejected: unknown plant: X", err.Error())

	withCause := Wrap(stderrors.New("boom"), "search failed")
	assert.Contains(t, withCause.Error(), "search failed")
	assert.Contains(t, withCause.Error(), "boom")
}

func TestIsKind(t *testing.T) {
	err := Validation("capacity must be greater than 0")
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindTransport))
}
