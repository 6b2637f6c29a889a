package effects

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/draw"
)

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func TestSpawnCounts(t *testing.T) {
	s := NewSystem(rand.New(rand.NewSource(1)))
	s.SpawnExplosion(100, 100)
	assert.Equal(t, config.ExplosionParticles, s.Len())

	s.SpawnThrust(100, 100, 0)
	s.SpawnDust(100, 510)
	s.SpawnLeak(100, 100)
	assert.Equal(t, config.ExplosionParticles+config.ThrustParticles+config.DustParticles+1, s.Len())

	s.Reset()
	assert.Zero(t, s.Len())
}

func TestThrustPointsAwayFromAttitude(t *testing.T) {
	s := NewSystem(fixedRand(0.5))
	s.SpawnThrust(0, 0, 0)
	for _, p := range s.Particles() {
		assert.Greater(t, p.VY, 0.0, "upright lander exhausts downward")
		assert.InDelta(t, 0, p.VX, 1e-9)
	}

	s.Reset()
	s.SpawnThrust(0, 0, 90)
	for _, p := range s.Particles() {
		assert.Less(t, p.VX, 0.0, "nose right exhausts left")
	}
}

func TestUpdateExpiresParticles(t *testing.T) {
	s := NewSystem(fixedRand(0.5))
	s.SpawnThrust(0, 0, 0)
	s.Update(16 * time.Millisecond)
	assert.Equal(t, config.ThrustParticles, s.Len())

	s.Update(2 * time.Second)
	assert.Zero(t, s.Len())
}

func TestParticlesSettleOnFloor(t *testing.T) {
	s := NewSystem(fixedRand(0.5))
	s.SetFloor(510)
	s.SpawnLeak(100, 505)
	for i := 0; i < 20; i++ {
		s.Update(20 * time.Millisecond)
	}
	for _, p := range s.Particles() {
		assert.LessOrEqual(t, p.Y, 510.0)
	}
}

func TestDrawSkipsFadedParticles(t *testing.T) {
	c := draw.NewScaledCanvas(80, 30, 800, 600)
	s := NewSystem(fixedRand(0.5))
	s.SpawnLeak(400, 300)

	p := s.Particles()[0]
	s.Draw(c)
	assert.Equal(t, draw.ColorGreen, c.Pixel(p.X, p.Y))

	c.Clear()
	p.Lifetime = p.MaxLifetime * 0.1
	s.Draw(c)
	assert.Equal(t, draw.ColorNone, c.Pixel(p.X, p.Y))
}
