// Package physics provides geometry and collision utilities.
package physics

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// NormalizeAngle wraps an angle in degrees into [-180, 180].
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a > 180 {
		a -= 360
	}
	if a < -180 {
		a += 360
	}
	return a
}

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// Overlaps reports whether both axis intervals overlap. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Right > o.Left && r.Left < o.Right &&
		r.Bottom > o.Top && r.Top < o.Bottom
}

// OverlapsX reports whether the horizontal spans overlap.
func (r Rect) OverlapsX(left, right float64) bool {
	return r.Right > left && r.Left < right
}

// Corners returns the four corners of a box centred on (cx, cy) with the
// given half extents, rotated clockwise by angleDeg.
func Corners(cx, cy, halfW, halfH, angleDeg float64) [4][2]float64 {
	rad := DegToRad(angleDeg)
	cos, sin := math.Cos(rad), math.Sin(rad)
	local := [4][2]float64{
		{-halfW, halfH},
		{halfW, halfH},
		{-halfW, -halfH},
		{halfW, -halfH},
	}
	var out [4][2]float64
	for i, c := range local {
		out[i] = [2]float64{
			cx + c[0]*cos - c[1]*sin,
			cy + c[0]*sin + c[1]*cos,
		}
	}
	return out
}

// RotatedBounds returns the axis-aligned envelope of a rotated box.
func RotatedBounds(cx, cy, halfW, halfH, angleDeg float64) Rect {
	corners := Corners(cx, cy, halfW, halfH, angleDeg)
	r := Rect{
		Left: math.Inf(1), Top: math.Inf(1),
		Right: math.Inf(-1), Bottom: math.Inf(-1),
	}
	for _, c := range corners {
		r.Left = math.Min(r.Left, c[0])
		r.Right = math.Max(r.Right, c[0])
		r.Top = math.Min(r.Top, c[1])
		r.Bottom = math.Max(r.Bottom, c[1])
	}
	return r
}
