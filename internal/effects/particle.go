// Package effects holds the short-lived visual effects drawn around the lander.
package effects

import (
	"math"
	"sync"
	"time"

	"github.com/tomz197/lander/internal/config"
	"github.com/tomz197/lander/internal/draw"
	"github.com/tomz197/lander/internal/physics"
)

// particlePool reuses Particle values across frames.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a single spark of exhaust, debris, dust or fuel.
type Particle struct {
	X, Y        float64    // Position, world units
	VX, VY      float64    // Velocity, world units per second
	Lifetime    float64    // Seconds remaining
	MaxLifetime float64    // Initial lifetime (for fade)
	Drag        float64    // Velocity kept per 60Hz frame (1.0 = no drag)
	Gravity     float64    // Downward acceleration, world units per second squared
	Color       draw.Color // Pixel color
}

func newParticle(x, y, vx, vy, lifetime float64, color draw.Color) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
		Color:       color,
	}
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// update advances the particle. Returns true once it has expired.
func (p *Particle) update(dt, floor float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}
	drag := math.Pow(p.Drag, dt*60)
	p.VX *= drag
	p.VY = p.VY*drag + p.Gravity*dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
	if floor > 0 && p.Y > floor {
		p.Y = floor
		p.VY = 0
	}
	return false
}

// Rand is the random source used for spreads and lifetimes.
type Rand interface {
	Float64() float64
}

// System owns the live particles of one game view. Not safe for concurrent use.
type System struct {
	particles []*Particle
	rng       Rand
	floor     float64 // Particles never sink below this line, 0 disables
}

// NewSystem creates an empty particle system.
func NewSystem(rng Rand) *System {
	return &System{rng: rng}
}

// SetFloor sets the ground line particles settle on.
func (s *System) SetFloor(y float64) {
	s.floor = y
}

// Len returns the number of live particles.
func (s *System) Len() int {
	return len(s.particles)
}

// Particles returns the live particles. The slice is owned by the system.
func (s *System) Particles() []*Particle {
	return s.particles
}

// Reset releases every particle.
func (s *System) Reset() {
	for _, p := range s.particles {
		p.Release()
	}
	clear(s.particles)
	s.particles = s.particles[:0]
}

// spread returns a value in [-1, 1).
func (s *System) spread() float64 {
	return s.rng.Float64()*2 - 1
}

// SpawnExplosion bursts debris in every direction.
func (s *System) SpawnExplosion(x, y float64) {
	colors := []draw.Color{draw.ColorBrightYellow, draw.ColorYellow, draw.ColorRed, draw.ColorBrightRed, draw.ColorWhite}
	for i := 0; i < config.ExplosionParticles; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		speed := 120 * (0.5 + s.rng.Float64())
		life := 1.2 * (0.5 + s.rng.Float64()*0.5)
		color := colors[int(s.rng.Float64()*float64(len(colors)))%len(colors)]
		p := newParticle(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, life, color)
		p.Gravity = 60
		s.particles = append(s.particles, p)
	}
}

// SpawnThrust emits exhaust from the nozzle, opposite to the thrust direction.
// angle is the lander attitude in degrees, 0 pointing up.
func (s *System) SpawnThrust(x, y, angle float64) {
	for i := 0; i < config.ThrustParticles; i++ {
		rad := physics.DegToRad(angle + s.spread()*15)
		speed := 90 + s.rng.Float64()*60
		life := 0.15 + s.rng.Float64()*0.2
		color := draw.ColorBrightYellow
		if s.rng.Float64() < 0.4 {
			color = draw.ColorRed
		}
		p := newParticle(x, y, -math.Sin(rad)*speed, math.Cos(rad)*speed, life, color)
		p.Drag = 0.85
		s.particles = append(s.particles, p)
	}
}

// SpawnDust kicks up regolith sideways from a touchdown point.
func (s *System) SpawnDust(x, y float64) {
	for i := 0; i < config.DustParticles; i++ {
		speed := 30 + s.rng.Float64()*50
		dir := 1.0
		if i%2 == 0 {
			dir = -1
		}
		p := newParticle(x+s.spread()*8, y, dir*speed, -s.rng.Float64()*25, 0.6+s.rng.Float64()*0.6, draw.ColorGray)
		p.Drag = 0.9
		p.Gravity = 40
		s.particles = append(s.particles, p)
	}
}

// SpawnLeak drips fuel from a broken line.
func (s *System) SpawnLeak(x, y float64) {
	p := newParticle(x+s.spread()*4, y, s.spread()*10, 10+s.rng.Float64()*10, 0.5+s.rng.Float64()*0.5, draw.ColorGreen)
	p.Gravity = 80
	s.particles = append(s.particles, p)
}

// Update advances all particles and drops the expired ones.
func (s *System) Update(delta time.Duration) {
	dt := delta.Seconds()
	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.update(dt, s.floor) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept
}

// Draw plots the particles that are not yet faded out.
func (s *System) Draw(c *draw.Canvas) {
	for _, p := range s.particles {
		if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
			continue
		}
		c.SetColor(p.Color)
		c.SetFloat(p.X, p.Y)
	}
}
