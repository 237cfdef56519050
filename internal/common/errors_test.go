package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	detailed := ErrNotFound.WithDetails("gig abc not found")

	assert.Nil(t, ErrNotFound.Details)
	assert.Equal(t, "gig abc not found", detailed.Details)
	assert.True(t, errors.Is(detailed, ErrNotFound))
	assert.False(t, errors.Is(detailed, ErrConflict))
}

func TestAPIError_IsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading seller: %w", ErrPermissionDenied.WithDetails("rules"))

	assert.True(t, errors.Is(wrapped, ErrPermissionDenied))
	apiErr, ok := IsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestNewInsufficientPointsError(t *testing.T) {
	err := NewInsufficientPointsError(40, 50)

	assert.Equal(t, http.StatusPaymentRequired, err.StatusCode)
	assert.Equal(t, "INSUFFICIENT_POINTS", err.Code)
	assert.Equal(t, "Not enough points. You have 40 points, but this gig requires 50 points.", err.Message)
	assert.Equal(t, InsufficientPoints{Balance: 40, Required: 50}, err.Details)
	assert.Equal(t, "Not enough points.", ErrInsufficientPoints.Message)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(21, 2, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := NewPagination(0, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
