package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.1, Clamp(0.01, 0.1, 5))
	assert.Equal(t, 5.0, Clamp(12, 0.1, 5))
	assert.Equal(t, 1.0, Clamp(1, 0.1, 5))
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{190, -170},
		{-190, 170},
		{359, -1},
		{-359, 1},
		{725, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-9, "angle %v", tt.in)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}

	assert.True(t, a.Overlaps(Rect{Left: 5, Top: 5, Right: 15, Bottom: 15}))
	assert.False(t, a.Overlaps(Rect{Left: 10, Top: 0, Right: 20, Bottom: 10}), "touching edges")
	assert.False(t, a.Overlaps(Rect{Left: 0, Top: 11, Right: 10, Bottom: 20}))
	assert.True(t, a.OverlapsX(9, 30))
	assert.False(t, a.OverlapsX(10, 30))
}

func TestRotatedBoundsUnrotated(t *testing.T) {
	r := RotatedBounds(100, 200, 17.5, 25, 0)
	assert.InDelta(t, 82.5, r.Left, 1e-9)
	assert.InDelta(t, 117.5, r.Right, 1e-9)
	assert.InDelta(t, 175, r.Top, 1e-9)
	assert.InDelta(t, 225, r.Bottom, 1e-9)
}

func TestRotatedBoundsQuarterTurn(t *testing.T) {
	r := RotatedBounds(0, 0, 10, 20, 90)
	assert.InDelta(t, 40, r.Right-r.Left, 1e-9)
	assert.InDelta(t, 20, r.Bottom-r.Top, 1e-9)
}

func TestRotatedBoundsGrowsWithTilt(t *testing.T) {
	flat := RotatedBounds(0, 0, 10, 20, 0)
	tilted := RotatedBounds(0, 0, 10, 20, 30)
	assert.Greater(t, tilted.Right-tilted.Left, flat.Right-flat.Left)
	assert.Greater(t, tilted.Bottom, flat.Bottom)
	cx, cy := tilted.Center()
	assert.InDelta(t, 0, cx, 1e-9)
	assert.InDelta(t, 0, cy, 1e-9)
}
