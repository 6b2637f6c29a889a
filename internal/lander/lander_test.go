package lander

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/lander/internal/config"
)

// fixedRand always returns the same value. 0.48 cancels the wind bias.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

type recorder struct {
	events []Event
}

func (r *recorder) Emit(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) sounds() []Sound {
	var out []Sound
	for _, e := range r.events {
		if e.Kind == EventPlaySound {
			out = append(out, e.Sound)
		}
	}
	return out
}

func testEnv() *Environment {
	return &Environment{
		Width:      800,
		Height:     600,
		SurfaceY:   510,
		Planet:     config.Planets[0],
		Difficulty: config.Difficulties["impossible"],
		Pad:        Pad{X: 400, Y: 510, Width: 25},
	}
}

func TestStepFactor(t *testing.T) {
	assert.InDelta(t, 1.0, StepFactor(16.667), 1e-9)
	assert.Equal(t, 0.1, StepFactor(0))
	assert.Equal(t, 5.0, StepFactor(1000))
}

func TestIntegrateThrustConsumesFuel(t *testing.T) {
	for _, fuel := range []float64{100, 25, 1} {
		l := New(400, 100, fuel)
		env := testEnv()

		dt := Integrate(l, env, Controls{Thrust: true}, 16.667, fixedRand(0.48), Discard)

		assert.InDelta(t, fuel-config.FuelConsumptionThrust*dt, l.Fuel, 1e-9, "fuel %v", fuel)
	}
}

func TestIntegrateFuelNeverNegative(t *testing.T) {
	l := New(400, 100, 0.5)
	env := testEnv()
	for i := 0; i < 50; i++ {
		Integrate(l, env, Controls{Thrust: true, RotateLeft: true}, 80, fixedRand(0.48), Discard)
		require.GreaterOrEqual(t, l.Fuel, 0.0)
	}
	assert.Equal(t, 0.0, l.Fuel)
}

func TestIntegrateGravity(t *testing.T) {
	l := New(400, 100, 25)
	env := testEnv()

	Integrate(l, env, Controls{}, 16.667, fixedRand(0.48), Discard)

	want := config.GravityBase * 1.0 * 1.6
	assert.InDelta(t, want, l.VY, 1e-9)
	assert.InDelta(t, 0, l.VX, 1e-12)
	assert.InDelta(t, 100+want, l.Y, 1e-9)
}

func TestIntegrateThrustUpright(t *testing.T) {
	l := New(400, 100, 25)
	env := testEnv()

	Integrate(l, env, Controls{Thrust: true}, 16.667, fixedRand(0.48), Discard)

	want := -config.ThrustPower + env.Gravity()
	assert.InDelta(t, want, l.VY, 1e-9)
	assert.InDelta(t, 0, l.VX, 1e-9)
}

func TestIntegrateRotationNudgesVelocity(t *testing.T) {
	l := New(400, 100, 25)
	env := testEnv()

	Integrate(l, env, Controls{RotateRight: true}, 16.667, fixedRand(0.48), Discard)

	assert.InDelta(t, config.RotationSpeed, l.Angle, 1e-9)
	assert.InDelta(t, config.ThrustPower*config.SideThrustFactor, l.VX, 1e-9)
	assert.InDelta(t, 25-config.FuelConsumptionRotate, l.Fuel, 1e-9)

	Integrate(l, env, Controls{RotateLeft: true}, 16.667, fixedRand(0.48), Discard)
	Integrate(l, env, Controls{RotateLeft: true}, 16.667, fixedRand(0.48), Discard)
	assert.InDelta(t, -config.RotationSpeed, l.Angle, 1e-9)
}

func TestIntegrateNoRotationWithoutFuel(t *testing.T) {
	l := New(400, 100, 0)
	env := testEnv()

	Integrate(l, env, Controls{RotateRight: true, Thrust: true}, 16.667, fixedRand(0.48), Discard)

	assert.Equal(t, 0.0, l.Angle)
	assert.InDelta(t, env.Gravity(), l.VY, 1e-9)
}

func TestIntegrateMalfunctionBlocksThrust(t *testing.T) {
	l := New(400, 100, 25)
	l.ThrusterMalfunctioning = true
	l.MalfunctionTimer = 1000
	env := testEnv()

	Integrate(l, env, Controls{Thrust: true}, 16.667, fixedRand(0.48), Discard)

	assert.InDelta(t, 25, l.Fuel, 1e-9)
	assert.InDelta(t, env.Gravity(), l.VY, 1e-9)
	assert.InDelta(t, 1000-16.667, l.MalfunctionTimer, 1e-9)
}

func TestIntegrateMalfunctionClears(t *testing.T) {
	l := New(400, 100, 25)
	l.ThrusterMalfunctioning = true
	l.MalfunctionTimer = 10
	rec := &recorder{}

	Integrate(l, testEnv(), Controls{}, 16.667, fixedRand(0.48), rec)

	assert.False(t, l.ThrusterMalfunctioning)
	assert.Contains(t, rec.kinds(), EventMalfunctionCleared)
}

func TestIntegrateFailureRolls(t *testing.T) {
	l := New(400, 100, 25)
	rec := &recorder{}

	// A zero roll is below any positive chance.
	Integrate(l, testEnv(), Controls{}, 16.667, fixedRand(0), rec)

	assert.True(t, l.FuelLeaking)
	assert.True(t, l.ThrusterMalfunctioning)
	assert.Equal(t, config.MalfunctionDuration, l.MalfunctionTimer)
	assert.Contains(t, rec.kinds(), EventFuelLeakStarted)
	assert.Contains(t, rec.kinds(), EventMalfunction)
}

func TestIntegrateFuelLeakDrains(t *testing.T) {
	l := New(400, 100, 25)
	l.FuelLeaking = true

	Integrate(l, testEnv(), Controls{}, 16.667, fixedRand(0.48), Discard)

	assert.InDelta(t, 25-config.FuelLeakRate, l.Fuel, 1e-9)
}

func TestIntegrateLowFuelWarningOnce(t *testing.T) {
	l := New(400, 100, 20.1)
	rec := &recorder{}
	env := testEnv()

	for i := 0; i < 5; i++ {
		Integrate(l, env, Controls{Thrust: true}, 16.667, fixedRand(0.48), rec)
	}

	count := 0
	for _, s := range rec.sounds() {
		if s == SoundLowFuel {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.True(t, l.LowFuelWarned)
}

func TestIntegrateWallBounce(t *testing.T) {
	env := testEnv()

	l := New(10, 100, 25)
	l.VX = -2
	Integrate(l, env, Controls{}, 16.667, fixedRand(0.48), Discard)
	assert.Equal(t, l.Width/2, l.X)
	assert.InDelta(t, 0.4, l.VX, 1e-9)

	r := New(env.Width-5, 100, 25)
	r.VX = 3
	Integrate(r, env, Controls{}, 16.667, fixedRand(0.48), Discard)
	assert.Equal(t, env.Width-r.Width/2, r.X)
	assert.InDelta(t, -0.6, r.VX, 1e-9)
}

func TestIntegrateStopsWhenDone(t *testing.T) {
	l := New(400, 100, 25)
	l.Crashed = true

	dt := Integrate(l, testEnv(), Controls{Thrust: true}, 16.667, fixedRand(0.48), Discard)

	assert.Equal(t, 0.0, dt)
	assert.Equal(t, 25.0, l.Fuel)
	assert.Equal(t, 100.0, l.Y)
}

func TestControlsSet(t *testing.T) {
	var c Controls
	c.Set(ControlThrust, true)
	c.Set(ControlRotateLeft, true)
	assert.True(t, c.Thrust)
	assert.True(t, c.RotateLeft)
	assert.True(t, c.Any())

	c.Set(ControlThrust, false)
	c.Set(ControlRotateLeft, false)
	assert.False(t, c.Any())
}

func TestNozzleBelowUprightLander(t *testing.T) {
	l := New(100, 100, 25)
	x, y := l.Nozzle()
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 125, y, 1e-9)
}

func TestAltitude(t *testing.T) {
	l := New(100, 400, 25)
	assert.Equal(t, 85.0, l.Altitude(510))
	l.Y = 600
	assert.Equal(t, 0.0, l.Altitude(510))
}
