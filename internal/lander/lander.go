// Package lander simulates the lander: Euler integration of its kinematics
// and the resolution of surface and obstacle contact.
package lander

import (
	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/physics"
)

// Lander is the player-controlled craft.
// Angle is in degrees, clockwise, 0 = upright. Y grows downward.
type Lander struct {
	X, Y   float64 // Centre
	VX, VY float64 // Velocity per reference frame
	Angle  float64
	Fuel   float64 // 0..100

	Width, Height float64

	Landed                 bool
	Crashed                bool
	FuelLeaking            bool
	ThrusterMalfunctioning bool
	MalfunctionTimer       float64 // Milliseconds left
	LowFuelWarned          bool
}

// New returns a lander of the standard size at rest.
func New(x, y, fuel float64) *Lander {
	return &Lander{
		X:      x,
		Y:      y,
		Fuel:   fuel,
		Width:  config.LanderWidth,
		Height: config.LanderHeight,
	}
}

// Done reports whether the lander has reached a terminal state.
func (l *Lander) Done() bool {
	return l.Landed || l.Crashed
}

// Bounds returns the axis-aligned envelope of the rotated hull.
func (l *Lander) Bounds() physics.Rect {
	return physics.RotatedBounds(l.X, l.Y, l.Width/2, l.Height/2, l.Angle)
}

// DisplayAngle returns the angle wrapped to [-180, 180].
func (l *Lander) DisplayAngle() float64 {
	return physics.NormalizeAngle(l.Angle)
}

// Altitude returns the distance from the unrotated hull bottom to the surface.
func (l *Lander) Altitude(surfaceY float64) float64 {
	return max(0, surfaceY-(l.Y+l.Height/2))
}

// Nozzle returns the world position of the main engine.
func (l *Lander) Nozzle() (x, y float64) {
	c := physics.Corners(l.X, l.Y, 0, l.Height/2, l.Angle)
	return c[0][0], c[0][1]
}

// Controls is the set of held inputs.
type Controls struct {
	Thrust      bool
	RotateLeft  bool
	RotateRight bool
}

// Any reports whether any control is held.
func (c Controls) Any() bool {
	return c.Thrust || c.RotateLeft || c.RotateRight
}

// Control names a single input.
type Control int

const (
	ControlThrust      Control = iota // Main engine
	ControlRotateLeft                 // Counter-clockwise
	ControlRotateRight                // Clockwise
)

// Set updates one control.
func (c *Controls) Set(ctl Control, pressed bool) {
	switch ctl {
	case ControlThrust:
		c.Thrust = pressed
	case ControlRotateLeft:
		c.RotateLeft = pressed
	case ControlRotateRight:
		c.RotateRight = pressed
	}
}

// Pad is the landing target. X is the pad centre.
type Pad struct {
	X, Y  float64
	Width float64
}

// Left returns the left edge of the pad.
func (p Pad) Left() float64 { return p.X - p.Width/2 }

// Right returns the right edge of the pad.
func (p Pad) Right() float64 { return p.X + p.Width/2 }

// Obstacle is a static rock. X, Y is the top-left corner.
type Obstacle struct {
	X, Y          float64
	Width, Height float64
}

// Rect returns the obstacle as a rectangle.
func (o Obstacle) Rect() physics.Rect {
	return physics.Rect{Left: o.X, Top: o.Y, Right: o.X + o.Width, Bottom: o.Y + o.Height}
}

// Environment is everything about a mission that stays fixed while it is flown.
type Environment struct {
	Width, Height float64
	SurfaceY      float64
	Planet        config.Planet
	Difficulty    config.Difficulty
	Pad           Pad
	Obstacles     []Obstacle
}

// Gravity returns the vertical acceleration per reference frame.
func (e *Environment) Gravity() float64 {
	return config.GravityBase * e.Planet.GravityFactor * e.Difficulty.GravityMult
}

// Thresholds returns the landing tolerances for this environment.
func (e *Environment) Thresholds() Thresholds {
	return Thresholds{
		MaxVSpeed:   e.Difficulty.MaxVSpeed,
		MaxHSpeed:   e.Difficulty.MaxHSpeed,
		MaxRotation: config.MaxLandingRotation,
	}
}

// Rand is the source of randomness for wind and failures.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}
