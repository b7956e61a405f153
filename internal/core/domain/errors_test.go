package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("renew: %w", ErrMemberNotFound)

	assert.True(t, errors.Is(wrapped, ErrMemberNotFound))
	assert.False(t, errors.Is(wrapped, ErrZoneNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestNewInternalError_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("Failed to save member", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
