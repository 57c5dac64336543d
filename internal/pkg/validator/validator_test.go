package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	type sample struct {
		Name    string `validate:"required"`
		Backend string `validate:"oneof=sqlite redis"`
		Retries int    `validate:"gte=0,lte=10"`
	}

	t.Run("valid struct passes", func(t *testing.T) {
		err := Validate(sample{Name: "algowatch", Backend: "sqlite", Retries: 3})
		assert.NoError(t, err)
	})

	t.Run("missing required field fails", func(t *testing.T) {
		err := Validate(sample{Backend: "sqlite"})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "'Name'")
		assert.Contains(t, err.Error(), "'required'")
	})

	t.Run("every failing field is reported", func(t *testing.T) {
		err := Validate(sample{Backend: "postgres", Retries: 99})

		require.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "'Name'")
		assert.Contains(t, err.Error(), "'Backend'")
		assert.Contains(t, err.Error(), "'Retries'")
	})

	t.Run("non struct input fails without the sentinel", func(t *testing.T) {
		err := Validate("not a struct")

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrValidationFailed)
	})
}
