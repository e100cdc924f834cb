package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NotFound("patient"), http.StatusNotFound},
		{Validation("phone", "bad phone"), http.StatusBadRequest},
		{ValidationMsg("bad request"), http.StatusBadRequest},
		{Unauthorized("invalid credentials"), http.StatusUnauthorized},
		{Permission("no permission"), http.StatusForbidden},
		{Conflict("duplicate", nil), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), tc.err.Message)
	}
}

func TestValidationFields(t *testing.T) {
	err := Validation("email", "enter a valid email address")
	assert.Equal(t, "enter a valid email address", err.Fields["email"])
	assert.Equal(t, "enter a valid email address", err.Message)
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("creating patient: %w", NotFound("patient"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrNotFound, appErr.Code)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(Permission("nope"), ErrPermission))
	assert.False(t, IsCode(Permission("nope"), ErrNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrNotFound))
	assert.False(t, IsCode(nil, ErrNotFound))
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("duplicate key value")
	err := Conflict("mapping already exists", cause)
	assert.Contains(t, err.Error(), "mapping already exists")
	assert.Contains(t, err.Error(), "duplicate key value")
	assert.Equal(t, cause, errors.Unwrap(err))
}
