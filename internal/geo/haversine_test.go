package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		expected               float64
		delta                  float64
	}{
		{
			name: "Identical points",
			lat1: 21.0285, lng1: 105.8542,
			lat2: 21.0285, lng2: 105.8542,
			expected: 0, delta: 0.001,
		},
		{
			name: "Roughly 200m apart",
			lat1: 21.0285, lng1: 105.8542,
			lat2: 21.0285 + 0.0017986, lng2: 105.8542,
			expected: 200, delta: 1,
		},
		{
			name: "One degree of latitude",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			expected: 111195, delta: 10,
		},
		{
			name: "Hanoi to Ho Chi Minh City",
			lat1: 21.0285, lng1: 105.8542,
			lat2: 10.7769, lng2: 106.7009,
			expected: 1137000, delta: 10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, d, tt.delta)
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	d1 := Distance(21.0285, 105.8542, 10.7769, 106.7009)
	d2 := Distance(10.7769, 106.7009, 21.0285, 105.8542)
	assert.InDelta(t, d1, d2, 0.0001)
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(0, DiscoveryToleranceMeters))
	assert.True(t, WithinTolerance(99.99, DiscoveryToleranceMeters))
	assert.True(t, WithinTolerance(100.0, DiscoveryToleranceMeters), "boundary is accepted")
	assert.False(t, WithinTolerance(100.01, DiscoveryToleranceMeters))
	assert.False(t, WithinTolerance(200, DiscoveryToleranceMeters))
}

func TestBoundingBox(t *testing.T) {
	latDelta, lngDelta := BoundingBox(21.0285, 1000)

	// 1000m of latitude is about 0.009 degrees; longitude stretches
	// with the cosine of the latitude.
	assert.InDelta(t, 0.00899, latDelta, 0.0005)
	assert.Greater(t, lngDelta, latDelta)

	// Distance to the box edge must cover the radius.
	d := Distance(21.0285, 105.8542, 21.0285+latDelta, 105.8542)
	assert.GreaterOrEqual(t, d, 999.0)
}
