package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrForbidden, "complete the introduction first")

	assert.Equal(t, "complete the introduction first", err.Message)
	assert.Equal(t, http.StatusForbidden, err.Status)
	assert.True(t, stdErrors.Is(err, ErrForbidden))
	assert.False(t, stdErrors.Is(err, ErrNotFound))
	assert.Equal(t, "forbidden", ErrForbidden.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	cause := fmt.Errorf("boom")
	appErr := FromError(cause)

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, cause)

	wrapped := fmt.Errorf("outer: %w", Clone(ErrConflict, "username taken"))
	assert.Equal(t, ErrConflict.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}
