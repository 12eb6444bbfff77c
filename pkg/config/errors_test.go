package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	base := errors.New("must be at least 1")

	withField := NewValidationError("journey", "journey", "history_window", base)
	assert.Equal(t, "journey 'journey': field 'history_window': must be at least 1", withField.Error())
	assert.ErrorIs(t, withField, base)

	noField := NewValidationError("stage", "ideation", "", ErrInvalidValue)
	assert.Equal(t, "stage 'ideation': invalid field value", noField.Error())
	assert.ErrorIs(t, noField, ErrInvalidValue)
}

func TestLoadError(t *testing.T) {
	err := NewLoadError(MainConfigFile, ErrInvalidYAML)
	assert.Contains(t, err.Error(), "failed to load ventureforge.yaml")
	assert.ErrorIs(t, err, ErrInvalidYAML)

	var loadErr *LoadError
	wrapped := errors.Join(errors.New("outer"), err)
	assert.True(t, errors.As(wrapped, &loadErr))
	assert.Equal(t, MainConfigFile, loadErr.File)
}
