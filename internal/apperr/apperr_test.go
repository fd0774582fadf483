package apperr_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/herroute/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *apperr.Error
		status int
	}{
		{apperr.NotFound("no match"), http.StatusNotFound},
		{apperr.FetchFailure("upstream", assert.AnError), http.StatusBadGateway},
		{apperr.Validation("empty"), http.StatusBadRequest},
		{apperr.Internal("boom", assert.AnError), http.StatusInternalServerError},
		{apperr.New(apperr.KindUnknown, "?"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus(), tt.err.Error())
	}
}

func TestErrorChain(t *testing.T) {
	base := apperr.FetchFailure("geocoding request failed", assert.AnError).WithOp("resolve")
	wrapped := fmt.Errorf("search: %w", base)

	require.ErrorIs(t, wrapped, assert.AnError)
	assert.True(t, apperr.Is(wrapped, apperr.KindFetchFailure))
	assert.False(t, apperr.Is(wrapped, apperr.KindNotFound))
	assert.Equal(t, apperr.KindUnknown, apperr.GetKind(assert.AnError))
	assert.Contains(t, base.Error(), "resolve: geocoding request failed")
}
