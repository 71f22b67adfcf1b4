package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("NilError", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), assert.AnError.Error())
	})
}

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := Email.Validate(tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID.Validate("df6f1ad9-2c1b-4c0e-9a74-37e1a6f3c111"))
	assert.Error(t, UUID.Validate("df6f1ad9-2c1b-4c0e-9a74"))
	assert.Error(t, UUID.Validate("not-a-uuid"))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("pad-01"))
	assert.Error(t, NoWhitespace.Validate(" pad-01"))
	assert.Error(t, NoWhitespace.Validate("pad-01 "))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("x"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
}
