package lander

import (
	"math"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/physics"
)

// StepFactor converts elapsed milliseconds into reference frames,
// clamped so a stalled frame cannot launch the lander through the ground.
func StepFactor(elapsedMs float64) float64 {
	return physics.Clamp(elapsedMs/config.ReferenceFrameMs, config.MinStepFactor, config.MaxStepFactor)
}

// Integrate advances the lander by one tick and returns the step factor used.
// It does nothing once the lander has landed or crashed.
func Integrate(l *Lander, env *Environment, ctl Controls, elapsedMs float64, rng Rand, sink Sink) float64 {
	if l.Done() {
		return 0
	}
	dt := StepFactor(elapsedMs)
	diff := env.Difficulty

	rollFailures(l, diff, elapsedMs, dt, rng, sink)

	// Rotation with side-thruster coupling
	side := config.ThrustPower * config.SideThrustFactor
	rotation := 0.0
	if ctl.RotateLeft && l.Fuel > 0 {
		rotation = -config.RotationSpeed * dt
		l.Fuel -= config.FuelConsumptionRotate * dt
		l.VX -= side * dt
		playSound(sink, SoundThrust, 0.3, true)
	}
	if ctl.RotateRight && l.Fuel > 0 {
		rotation = config.RotationSpeed * dt
		l.Fuel -= config.FuelConsumptionRotate * dt
		l.VX += side * dt
		playSound(sink, SoundThrust, 0.3, true)
	}
	if !ctl.Any() {
		stopSound(sink, SoundThrust)
	}
	l.Angle = math.Mod(l.Angle+rotation, 360)

	// Main engine
	if ctl.Thrust && l.Fuel > 0 && !l.ThrusterMalfunctioning {
		rad := physics.DegToRad(l.Angle)
		l.VX += math.Sin(rad) * config.ThrustPower * dt
		l.VY -= math.Cos(rad) * config.ThrustPower * dt
		l.Fuel -= config.FuelConsumptionThrust * dt
		playSound(sink, SoundThrust, 0.5, true)
		nx, ny := l.Nozzle()
		sink.Emit(Event{Kind: EventThrust, X: nx, Y: ny, Angle: l.Angle})
	}

	l.VY += env.Gravity() * dt
	l.VX += (rng.Float64() - config.WindBias) * diff.WindFactor * dt

	if l.FuelLeaking && l.Fuel > 0 {
		l.Fuel -= config.FuelLeakRate * dt
		sink.Emit(Event{Kind: EventFuelLeak, X: l.X, Y: l.Y + l.Height/2})
	}

	l.X += l.VX * dt
	l.Y += l.VY * dt

	l.Fuel = max(0, l.Fuel)
	if l.Fuel <= 0 && ctl.Thrust {
		stopSound(sink, SoundThrust)
	}
	if !l.LowFuelWarned && l.Fuel < config.LowFuelThreshold && l.Fuel > 0 {
		l.LowFuelWarned = true
		playSound(sink, SoundLowFuel, 0.7, false)
	}

	half := l.Width / 2
	if l.X < half {
		l.X = half
		l.VX *= config.WallBounce
	} else if l.X > env.Width-half {
		l.X = env.Width - half
		l.VX *= config.WallBounce
	}

	return dt
}

// rollFailures starts random equipment failures and runs down the malfunction timer.
func rollFailures(l *Lander, diff config.Difficulty, elapsedMs, dt float64, rng Rand, sink Sink) {
	if l.ThrusterMalfunctioning {
		l.MalfunctionTimer -= elapsedMs
		if l.MalfunctionTimer <= 0 {
			l.MalfunctionTimer = 0
			l.ThrusterMalfunctioning = false
			sink.Emit(Event{Kind: EventMalfunctionCleared})
		}
	}
	if !l.FuelLeaking && diff.FuelLeakChance > 0 && rng.Float64() < diff.FuelLeakChance*dt {
		l.FuelLeaking = true
		sink.Emit(Event{Kind: EventFuelLeakStarted, X: l.X, Y: l.Y})
	}
	if !l.ThrusterMalfunctioning && diff.ThrusterMalfunctionChance > 0 && rng.Float64() < diff.ThrusterMalfunctionChance*dt {
		l.ThrusterMalfunctioning = true
		l.MalfunctionTimer = config.MalfunctionDuration
		stopSound(sink, SoundThrust)
		sink.Emit(Event{Kind: EventMalfunction, X: l.X, Y: l.Y})
	}
}
