package mission

import (
	"fmt"
	"math"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/lander"
)

// Config describes the campaign a mission is rolled from.
type Config struct {
	Planets    []config.Planet
	Difficulty config.Difficulty
	Width      float64
	Height     float64
	SurfaceY   float64
}

// DefaultConfig returns the standard world for a difficulty.
func DefaultConfig(diff config.Difficulty) Config {
	return Config{
		Planets:    config.Planets,
		Difficulty: diff,
		Width:      config.WorldWidth,
		Height:     config.WorldHeight,
		SurfaceY:   config.WorldHeight - config.SurfaceHeight,
	}
}

// Validate checks that a mission can be rolled from c.
func (c Config) Validate() error {
	if len(c.Planets) == 0 {
		return ErrNoPlanets
	}
	if c.Difficulty.Name == "" || c.Difficulty.MaxVSpeed <= 0 || c.Difficulty.MaxHSpeed <= 0 {
		return fmt.Errorf("%w: difficulty %q has no landing limits", ErrInvalidConfig, c.Difficulty.Name)
	}
	if c.Width <= config.LanderWidth || c.Height <= 0 {
		return fmt.Errorf("%w: world %vx%v", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.SurfaceY <= config.LanderHeight || c.SurfaceY >= c.Height {
		return fmt.Errorf("%w: surface at %v", ErrInvalidConfig, c.SurfaceY)
	}
	return nil
}

// rollEnvironment places the pad and the rocks for a planet.
func rollEnvironment(c Config, planetIndex int, rng lander.Rand) *lander.Environment {
	diff := c.Difficulty
	env := &lander.Environment{
		Width:      c.Width,
		Height:     c.Height,
		SurfaceY:   c.SurfaceY,
		Planet:     c.Planets[planetIndex],
		Difficulty: diff,
	}

	padWidth := math.Max(config.MinPadWidth, config.PadWidthBase*diff.PadWidthMult)
	env.Pad = lander.Pad{
		X:     c.Width * (config.PadMinXFactor + rng.Float64()*config.PadXRangeFactor),
		Y:     c.SurfaceY,
		Width: padWidth,
	}

	count := int(math.Floor(float64(diff.Obstacles) * (1 + float64(planetIndex)*config.ObstaclePlanetFactor)))
	clearLeft := env.Pad.X - padWidth*config.ObstaclePadClearance
	clearRight := env.Pad.X + padWidth*config.ObstaclePadClearance
	for i := 0; i < count; i++ {
		w := config.ObstacleMinWidth + rng.Float64()*config.ObstacleWidthRange
		h := config.ObstacleMinHeight + rng.Float64()*config.ObstacleHeightRange
		placed := false
		var x float64
		for attempt := 0; attempt < config.ObstaclePlaceAttempts; attempt++ {
			x = rng.Float64() * (c.Width - w)
			if x+w <= clearLeft || x >= clearRight {
				placed = true
				break
			}
		}
		if !placed {
			continue
		}
		// Rocks stand on the surface line.
		env.Obstacles = append(env.Obstacles, lander.Obstacle{X: x, Y: c.SurfaceY - h, Width: w, Height: h})
	}
	return env
}

// spawnLander puts a fresh lander near the top of the world.
func spawnLander(c Config, rng lander.Rand) *lander.Lander {
	diff := c.Difficulty
	l := lander.New(c.Width/2, c.Height*config.InitialAltitudeFactor, diff.Fuel)
	l.Fuel = math.Min(config.MaxFuel, math.Max(0, diff.Fuel))
	l.VX = (rng.Float64() - 0.5) * diff.InitialHSpeedRange
	l.VY = diff.InitialVSpeed
	return l
}
