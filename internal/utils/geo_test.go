package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Same point.
	assert.Equal(t, 0.0, HaversineKm(41.3111, 69.2797, 41.3111, 69.2797))

	// Paris to London, roughly 343 km.
	d := HaversineKm(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, 343.5, d, 2.0)

	// Symmetry.
	assert.InDelta(t, d, HaversineKm(51.5074, -0.1278, 48.8566, 2.3522), 1e-9)

	// Two cafes a few hundred meters apart stay under a 1 km radius.
	assert.Less(t, HaversineKm(41.3111, 69.2797, 41.3150, 69.2820), 1.0)
}
