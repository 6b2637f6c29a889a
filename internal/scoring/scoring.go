// Package scoring computes mission scores.
package scoring

import (
	"math"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/lander"
)

// Achievement is a one-off bonus earned on a landing.
type Achievement struct {
	Name  string
	Bonus int
}

// Achievements
var (
	PerfectLanding = Achievement{Name: "Perfect Landing", Bonus: config.PerfectLandingBonus}
	FuelMaster     = Achievement{Name: "Fuel Master", Bonus: config.FuelMasterBonus}
	DeathDefying   = Achievement{Name: "Death Defying", Bonus: config.DeathDefyingBonus}
)

// Bonus is a flat precision bonus applied before the difficulty multiplier.
type Bonus struct {
	Name   string
	Points int
}

// Input is everything the score depends on.
type Input struct {
	Success   bool
	Fuel      float64
	Impact    *lander.Impact
	Streak    int
	ScoreMult float64
}

// Result is the breakdown of one attempt.
type Result struct {
	Attempt          int
	Bonuses          []Bonus
	StreakMultiplier float64
	Achievements     []Achievement
	ResetStreak      bool
}

// Score computes the attempt score. It has no side effects.
//
// The streak multiplier is applied after the difficulty multiplier, the
// minimum floor and rounding, so the two roundings compound.
func Score(in Input) Result {
	if !in.Success {
		return Result{ResetStreak: true, StreakMultiplier: 1}
	}
	var res Result

	fuel := max(0, in.Fuel)
	base := config.ScoreBaseLanding + fuel*config.ScoreFuelBonus
	if fuel < config.LowFuelBonusBelow {
		base += config.LowFuelBonus
		res.Bonuses = append(res.Bonuses, Bonus{"Low Fuel", config.LowFuelBonus})
	}
	if in.Impact != nil && math.Abs(in.Impact.HSpeed) < config.StillLandingBelow {
		base += config.StillLandingBonus
		res.Bonuses = append(res.Bonuses, Bonus{"Still Landing", config.StillLandingBonus})
	}

	attempt := max(config.ScoreMinimum, math.Round(base*in.ScoreMult))

	res.StreakMultiplier = StreakMultiplier(in.Streak)
	attempt = math.Round(attempt * res.StreakMultiplier)

	res.Achievements = earned(in)
	for _, a := range res.Achievements {
		attempt += float64(a.Bonus)
	}
	res.Attempt = int(attempt)
	return res
}

// StreakMultiplier returns the near-miss multiplier for a streak, capped.
func StreakMultiplier(streak int) float64 {
	return math.Min(config.MaxStreakMultiplier, 1+float64(streak)*config.StreakMultiplier)
}

func earned(in Input) []Achievement {
	var out []Achievement
	if in.Impact != nil && math.Abs(in.Impact.VSpeed) < config.PerfectLandingBelow {
		out = append(out, PerfectLanding)
	}
	if in.Fuel < config.FuelMasterBelow {
		out = append(out, FuelMaster)
	}
	if in.Streak >= config.DeathDefyingStreak {
		out = append(out, DeathDefying)
	}
	return out
}
