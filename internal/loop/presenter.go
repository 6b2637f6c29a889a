package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/lander/internal/audio"
	"github.com/tomz197/lander/internal/draw"
	"github.com/tomz197/lander/internal/effects"
	"github.com/tomz197/lander/internal/lander"
)

// notice is a short status line shown over the play field.
type notice struct {
	text    string
	color   draw.Color
	expires time.Time
}

// Presenter turns game events into particles, sounds and status notices.
type Presenter struct {
	particles *effects.System
	player    audio.Player
	now       func() time.Time
	muted     bool
	notice    notice
}

var _ lander.Sink = (*Presenter)(nil)

// NewPresenter wires a particle system and an audio player. A nil player is silent.
func NewPresenter(particles *effects.System, player audio.Player, now func() time.Time) *Presenter {
	if player == nil {
		player = audio.Silent{}
	}
	if now == nil {
		now = time.Now
	}
	return &Presenter{particles: particles, player: player, now: now}
}

// Emit handles one event. It never blocks.
func (p *Presenter) Emit(e lander.Event) {
	switch e.Kind {
	case lander.EventPlaySound:
		if e.Sound == lander.SoundLowFuel {
			p.show("LOW FUEL", draw.ColorYellow)
		}
		if !p.muted {
			p.player.Play(e.Sound, e.Volume, e.Loop)
		}
	case lander.EventStopSound:
		p.player.Stop(e.Sound)
	case lander.EventThrust:
		p.particles.SpawnThrust(e.X, e.Y, e.Angle)
	case lander.EventExplosion:
		p.particles.SpawnExplosion(e.X, e.Y)
	case lander.EventDust:
		p.particles.SpawnDust(e.X, e.Y)
	case lander.EventFuelLeak:
		p.particles.SpawnLeak(e.X, e.Y)
	case lander.EventFuelLeakStarted:
		p.show("FUEL LEAK!", draw.ColorBrightRed)
	case lander.EventMalfunction:
		p.show("ENGINE MALFUNCTION!", draw.ColorBrightRed)
	case lander.EventMalfunctionCleared:
		p.show("Engine restored", draw.ColorGreen)
	case lander.EventNearMiss:
		p.show(fmt.Sprintf("NEAR MISS! Streak x%d", e.Streak), draw.ColorBrightYellow)
	case lander.EventMissionEnded:
		p.player.Stop(lander.SoundThrust)
		p.notice = notice{}
	}
}

// show replaces the current notice.
func (p *Presenter) show(text string, color draw.Color) {
	p.notice = notice{text: text, color: color, expires: p.now().Add(noticeDuration)}
}

// Notice returns the active status line, if any.
func (p *Presenter) Notice() (string, draw.Color, bool) {
	if p.notice.text == "" || !p.now().Before(p.notice.expires) {
		return "", draw.ColorNone, false
	}
	return p.notice.text, p.notice.color, true
}

// ToggleMute flips sound on or off. Muting stops held sounds.
func (p *Presenter) ToggleMute() bool {
	p.muted = !p.muted
	if p.muted {
		p.player.Stop(lander.SoundThrust)
	}
	return p.muted
}

// Muted reports whether sounds are suppressed.
func (p *Presenter) Muted() bool {
	return p.muted
}

// Click plays the menu click.
func (p *Presenter) Click() {
	if !p.muted {
		p.player.Play(lander.SoundClick, 0.5, false)
	}
}

// Close silences the player.
func (p *Presenter) Close() {
	p.player.Stop(lander.SoundThrust)
	p.player.Close()
}
