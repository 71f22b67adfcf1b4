package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("WrapsErrorWithContext", func(t *testing.T) {
		err := Wrap(ErrNotFound, "pad lookup")
		assert.Error(t, err)
		assert.True(t, Is(err, ErrNotFound))
		assert.Equal(t, "pad lookup: not found", err.Error())
	})

	t.Run("NilErrorReturnsNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "whatever"))
	})

	t.Run("ChainedWrapsPreserveSentinel", func(t *testing.T) {
		err := Wrap(Wrap(ErrIntegrity, "decrypt"), "load record")
		assert.True(t, Is(err, ErrIntegrity))
		assert.False(t, Is(err, ErrNotFound))
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrIntegrity}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v must not match %v", a, b)
		}
	}
}
