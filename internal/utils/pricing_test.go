package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRentalTotal(t *testing.T) {
	t.Run("Inclusive Day Count", func(t *testing.T) {
		// Three calendar days at 1500 per day.
		total, err := RentalTotal(1500, "2024-01-01", "2024-01-03")
		assert.NoError(t, err)
		assert.Equal(t, int32(4500), total)
	})

	t.Run("Single Day Rental", func(t *testing.T) {
		total, err := RentalTotal(1500, "2024-01-01", "2024-01-01")
		assert.NoError(t, err)
		assert.Equal(t, int32(1500), total)
	})

	t.Run("Invalid Range", func(t *testing.T) {
		_, err := RentalTotal(1500, "2024-01-03", "2024-01-01")
		assert.Error(t, err)
	})
}
