package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	err := New(CodeConflict, "user already exists")
	require.True(t, HasCode(err, CodeConflict))
	require.False(t, HasCode(err, CodeNotFound))
	require.False(t, HasCode(errors.New("plain"), CodeConflict))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "failed to load user")

	require.ErrorIs(t, err, cause)
	require.True(t, HasCode(err, CodeInternal))
	require.Contains(t, err.Error(), "connection refused")
}

func TestWrappedThroughFmt(t *testing.T) {
	inner := New(CodeNotFound, "donation request not found")
	outer := fmt.Errorf("handler: %w", inner)

	require.True(t, HasCode(outer, CodeNotFound))
	require.Equal(t, CodeNotFound, CodeOf(outer))
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	require.Equal(t, "internal server error", MessageOf(New(CodeInternal, "pq: relation missing")))
	require.Equal(t, "internal server error", MessageOf(errors.New("raw")))
	require.Equal(t, "forbidden access", MessageOf(New(CodeForbidden, "forbidden access")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeBadRequest:   http.StatusBadRequest,
		CodeValidation:   http.StatusBadRequest,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, status := range cases {
		require.Equal(t, status, ToHTTPStatus(code), "code %s", code)
	}
}
