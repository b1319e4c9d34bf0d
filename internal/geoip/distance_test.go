package geoip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	t.Run("identical coordinates are zero distance", func(t *testing.T) {
		d := DistanceMeters(48.8566, 2.3522, 48.8566, 2.3522)
		assert.InDelta(t, 0, d, 1e-6)
	})

	t.Run("symmetric in its coordinate pairs", func(t *testing.T) {
		ab := DistanceMeters(48.8566, 2.3522, 40.7128, -74.0060)
		ba := DistanceMeters(40.7128, -74.0060, 48.8566, 2.3522)
		assert.Equal(t, ab, ba)
	})

	t.Run("paris to new york is roughly 5800 km", func(t *testing.T) {
		d := DistanceMeters(48.8566, 2.3522, 40.7128, -74.0060)
		assert.InDelta(t, 5_837_000, d, 50_000)
	})

	t.Run("one degree of longitude on the equator", func(t *testing.T) {
		// 2*pi*6371km / 360
		d := DistanceMeters(0, 0, 0, 1)
		assert.InDelta(t, 111_195, d, 10)
	})

	t.Run("never negative", func(t *testing.T) {
		assert.GreaterOrEqual(t, DistanceMeters(-90, 0, 90, 180), 0.0)
		assert.GreaterOrEqual(t, DistanceMeters(51.5, -0.12, 51.5, -0.12), 0.0)
	})
}
