package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := InvalidQuery("at least one genre must be selected")

	assert.True(t, Is(err, ErrInvalidQuery))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("genre search: %w", err)
	assert.True(t, Is(wrapped, ErrInvalidQuery))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeInvalidQuery, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeAmbiguous, http.StatusConflict},
		{CodeLookupFailure, http.StatusBadGateway},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeLoad, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.code.HTTPStatus())
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := New("disk full")
	err := Wrap(cause, CodeLoad, "open catalog")

	assert.Equal(t, "open catalog: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, ErrLoad))
}

func TestAmbiguous_CarriesCandidates(t *testing.T) {
	err := Ambiguous("several titles match", []string{"Dune", "Dune Messiah"})

	var domainErr *Error
	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodeAmbiguous, domainErr.Code)
	assert.Equal(t, []string{"Dune", "Dune Messiah"}, domainErr.Details)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("lookup: %w", NotFound("book not found"))))
	assert.Equal(t, CodeInternal, CodeOf(New("plain")))
}
