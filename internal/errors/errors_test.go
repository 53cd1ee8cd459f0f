package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusByType(t *testing.T) {
	cases := map[ErrorType]int{
		TypeValidation:   http.StatusBadRequest,
		TypeNotFound:     http.StatusNotFound,
		TypeUnauthorized: http.StatusUnauthorized,
		TypeExternal:     http.StatusBadGateway,
		TypeInternal:     http.StatusInternalServerError,
	}
	for errType, want := range cases {
		err := &Error{Type: errType, Message: "boom"}
		assert.Equal(t, want, err.HTTPStatus(), string(errType))
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := ExternalError("scorer call failed", cause)

	assert.Contains(t, err.Error(), "scorer call failed")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestWithFieldChaining(t *testing.T) {
	err := ValidationError("bad ticker").
		WithField("ticker", "TOOLONG").
		WithField("source", "query")

	assert.Equal(t, "TOOLONG", err.Context["ticker"])
	assert.Equal(t, "query", err.Context["source"])
}

func TestToResponseOmitsCause(t *testing.T) {
	err := InternalError("database write failed", errors.New("pq: deadlock")).
		WithField("table", "unusual_activity_log")

	resp := err.ToResponse()
	assert.Equal(t, "database write failed", resp.Error)
	assert.Equal(t, TypeInternal, resp.Type)
	// Internal causes never leak into the response payload.
	assert.NotContains(t, resp.Error, "deadlock")
}

func TestAsStructuredError(t *testing.T) {
	structured := NotFoundError("no signal")
	assert.Same(t, structured, AsStructuredError(structured))

	wrapped := AsStructuredError(errors.New("plain failure"))
	require.NotNil(t, wrapped)
	assert.Equal(t, TypeInternal, wrapped.Type)

	assert.Nil(t, AsStructuredError(nil))
}
