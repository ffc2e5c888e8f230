package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundMatchesSentinel(t *testing.T) {
	err := NotFound("post", 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "post not found with id 42", err.Error())
}

func TestValidationCarriesField(t *testing.T) {
	err := Validation("username", "username already taken")
	assert.ErrorIs(t, err, ErrValidation)
	require.Len(t, err.Fields, 1)
	assert.Equal(t, "username", err.Fields[0].Field)
}

func TestWrappedAppErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("handling vote: %w", NotAuthenticated())
	assert.ErrorIs(t, wrapped, ErrNotAuthenticated)

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "user not authenticated", appErr.Message)
}
