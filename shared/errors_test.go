package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    *ServiceError
		status int
	}{
		{NewDatabaseError("svc", "op", errors.New("boom")), http.StatusInternalServerError},
		{NewValidationError("svc", "op", "bad input", map[string]string{"field": "required"}), http.StatusBadRequest},
		{NewNotFoundError("svc", "op", "missing"), http.StatusNotFound},
		{NewAuthenticationError("svc", "op", "bad token"), http.StatusUnauthorized},
		{NewAuthorizationError("svc", "op", "not allowed"), http.StatusForbidden},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, tc.err.HTTPStatus(), "category %s", tc.err.Category)
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("svc", "op", cause)
	require.ErrorIs(t, err, cause)
}

func TestAsServiceError(t *testing.T) {
	se := NewNotFoundError("svc", "op", "missing")

	got, ok := AsServiceError(fmt.Errorf("outer: %w", se))
	require.True(t, ok)
	require.Equal(t, se, got)

	_, ok = AsServiceError(errors.New("plain"))
	require.False(t, ok)
}
