// Package config centralizes all tunable game parameters.
package config

import "time"

// World dimensions in logical units. Rendering scales them to the terminal.
const (
	WorldWidth    = 800
	WorldHeight   = 600
	SurfaceHeight = 90 // Ground band below the surface line
)

// Lander
const (
	LanderWidth  = 35
	LanderHeight = 50
	InitialFuel  = 100
	MaxFuel      = 100
)

// Physics, in units per reference frame (16.667 ms).
const (
	GravityBase           = 0.00162
	ThrustPower           = 0.0045
	SideThrustFactor      = 0.4 // Side thrusters relative to the main engine
	RotationSpeed         = 0.16
	FuelConsumptionThrust = 0.18
	FuelConsumptionRotate = 0.04
	FuelLeakRate          = 0.05
	WindBias              = 0.48
	WallBounce            = -0.2
	MaxLandingRotation    = 5.0 // Degrees

	ReferenceFrameMs = 16.667
	MinStepFactor    = 0.1
	MaxStepFactor    = 5.0

	LowFuelThreshold    = 20.0
	MalfunctionDuration = 2000.0 // Milliseconds
)

// Mission setup
const (
	InitialAltitudeFactor = 0.2 // Lander starts at this fraction of the world height
	MinPadWidth           = 25
	PadWidthBase          = 60
	PadMinXFactor         = 0.2
	PadXRangeFactor       = 0.6
	ObstaclePlanetFactor  = 0.5 // Extra obstacles per planet index
	ObstacleMinWidth      = 15
	ObstacleWidthRange    = 25
	ObstacleMinHeight     = 8
	ObstacleHeightRange   = 20
	ObstaclePadClearance  = 1.5 // Pad widths kept free on each side of the pad centre
	ObstaclePlaceAttempts = 50
)

// Scoring
const (
	ScoreBaseLanding    = 2000
	ScoreFuelBonus      = 15
	ScoreMinimum        = 50
	LowFuelBonusBelow   = 5.0
	LowFuelBonus        = 500
	StillLandingBelow   = 0.05 // Horizontal speed
	StillLandingBonus   = 350
	StreakMultiplier    = 1.5
	MaxStreakMultiplier = 5.0

	PerfectLandingBelow = 0.1 // Vertical speed
	PerfectLandingBonus = 1000
	FuelMasterBelow     = 5.0
	FuelMasterBonus     = 800
	DeathDefyingStreak  = 5
	DeathDefyingBonus   = 1500
)

// Near miss
const (
	NearMissBand      = 10.0 // Distance from the surface line
	NearMissSpeedFrac = 0.8  // Fraction of the max safe speed
	NearMissCooldown  = 2 * time.Second
)

// Presentation
const (
	SpeedDisplayFactor = 6.0
	MaxHighScores      = 5
	HighScoreNameLen   = 3
	DefaultPlayerName  = "PIL"
)

// Particle counts per effect
const (
	ThrustParticles    = 5
	ExplosionParticles = 50
	DustParticles      = 15
)

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Planet is a landing site. Color is an ANSI SGR colour code for the ground.
type Planet struct {
	Name          string
	GravityFactor float64
	Color         string
}

// Planets in campaign order.
var Planets = []Planet{
	{Name: "Moon", GravityFactor: 1.0, Color: "37"},
	{Name: "Mars", GravityFactor: 2.3, Color: "31"},
	{Name: "Mercury", GravityFactor: 2.3, Color: "90"},
	{Name: "Venus", GravityFactor: 5.45, Color: "33"},
}

// Difficulty holds the per-profile tuning applied to every mission.
type Difficulty struct {
	Name                      string
	Fuel                      float64
	PadWidthMult              float64
	Obstacles                 int
	GravityMult               float64
	ScoreMult                 float64
	InitialVSpeed             float64
	InitialHSpeedRange        float64
	MaxVSpeed                 float64
	MaxHSpeed                 float64
	WindFactor                float64
	FuelLeakChance            float64
	ThrusterMalfunctionChance float64
}

// Difficulties by name.
var Difficulties = map[string]Difficulty{
	"impossible": {
		Name:                      "impossible",
		Fuel:                      25,
		PadWidthMult:              0.4,
		Obstacles:                 6,
		GravityMult:               1.6,
		ScoreMult:                 2.0,
		InitialVSpeed:             0.3,
		InitialHSpeedRange:        0.4,
		MaxVSpeed:                 0.35,
		MaxHSpeed:                 0.35,
		WindFactor:                0.0012,
		FuelLeakChance:            0.0005,
		ThrusterMalfunctionChance: 0.0003,
	},
	"training": {
		Name:               "training",
		Fuel:               100,
		PadWidthMult:       1.0,
		Obstacles:          0,
		GravityMult:        1.0,
		ScoreMult:          1.0,
		InitialVSpeed:      0.1,
		InitialHSpeedRange: 0.2,
		MaxVSpeed:          0.6,
		MaxHSpeed:          0.5,
		WindFactor:         0.0004,
	},
}

// DefaultDifficulty is used when no difficulty is configured.
const DefaultDifficulty = "impossible"
