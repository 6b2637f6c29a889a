package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomz197/lander/internal/lander"
)

func TestScoreImpossibleScenario(t *testing.T) {
	res := Score(Input{
		Success:   true,
		Fuel:      25,
		Impact:    &lander.Impact{VSpeed: 0.2, HSpeed: 0.1, Rotation: 2},
		ScoreMult: 2.0,
	})

	assert.Equal(t, 4750, res.Attempt)
	assert.Empty(t, res.Bonuses)
	assert.Empty(t, res.Achievements)
	assert.Equal(t, 1.0, res.StreakMultiplier)
	assert.False(t, res.ResetStreak)
}

func TestScoreIsPure(t *testing.T) {
	in := Input{
		Success:   true,
		Fuel:      3.3,
		Impact:    &lander.Impact{VSpeed: 0.05, HSpeed: 0.01, Rotation: 1},
		Streak:    2,
		ScoreMult: 2.0,
	}
	first := Score(in)
	second := Score(in)
	assert.Equal(t, first, second)
}

func TestScoreFailure(t *testing.T) {
	res := Score(Input{Success: false, Fuel: 25, Streak: 3, ScoreMult: 2})
	assert.Equal(t, 0, res.Attempt)
	assert.True(t, res.ResetStreak)
}

func TestScoreStreakAppliedAfterFloor(t *testing.T) {
	res := Score(Input{
		Success:   true,
		Fuel:      25,
		Impact:    &lander.Impact{VSpeed: 0.2, HSpeed: 0.1},
		Streak:    3,
		ScoreMult: 2.0,
	})
	// 1 + 3 * 1.5 = 5.5 is capped to 5.
	assert.Equal(t, 5.0, res.StreakMultiplier)
	assert.Equal(t, 4750*5, res.Attempt)
}

func TestScorePrecisionBonusesAndAchievements(t *testing.T) {
	res := Score(Input{
		Success:   true,
		Fuel:      2,
		Impact:    &lander.Impact{VSpeed: 0.05, HSpeed: 0.01},
		Streak:    5,
		ScoreMult: 2.0,
	})
	// (2000 + 30 + 500 + 350) * 2 = 5760, * 5 = 28800, + 1000 + 800 + 1500.
	assert.Equal(t, 32100, res.Attempt)
	assert.Equal(t, []Bonus{{"Low Fuel", 500}, {"Still Landing", 350}}, res.Bonuses)
	assert.Equal(t, []Achievement{PerfectLanding, FuelMaster, DeathDefying}, res.Achievements)
}

func TestScoreMinimumFloor(t *testing.T) {
	res := Score(Input{Success: true, Fuel: 25, ScoreMult: 0.01})
	assert.Equal(t, 50, res.Attempt)
}

func TestScoreWithoutImpact(t *testing.T) {
	res := Score(Input{Success: true, Fuel: 10, ScoreMult: 1})
	assert.Equal(t, 2150, res.Attempt)
	assert.Empty(t, res.Achievements)
}

func TestStreakMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, StreakMultiplier(0))
	assert.Equal(t, 2.5, StreakMultiplier(1))
	assert.Equal(t, 4.0, StreakMultiplier(2))
	assert.Equal(t, 5.0, StreakMultiplier(3))
	assert.Equal(t, 5.0, StreakMultiplier(10))
}
