package loop

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tomz197/lander/internal/draw"
	"github.com/tomz197/lander/internal/effects"
	"github.com/tomz197/lander/internal/lander"
)

type played struct {
	sound  lander.Sound
	volume float64
	loop   bool
}

// fakePlayer records calls.
type fakePlayer struct {
	plays  []played
	stops  []lander.Sound
	closed bool
}

func (f *fakePlayer) Play(s lander.Sound, volume float64, loop bool) {
	f.plays = append(f.plays, played{s, volume, loop})
}
func (f *fakePlayer) Stop(s lander.Sound) { f.stops = append(f.stops, s) }
func (f *fakePlayer) Close()              { f.closed = true }

func newTestPresenter() (*Presenter, *fakePlayer, *effects.System, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	player := &fakePlayer{}
	particles := effects.NewSystem(rand.New(rand.NewSource(1)))
	p := NewPresenter(particles, player, func() time.Time { return now })
	return p, player, particles, &now
}

func TestPresenterSounds(t *testing.T) {
	p, player, _, _ := newTestPresenter()

	p.Emit(lander.Event{Kind: lander.EventPlaySound, Sound: lander.SoundThrust, Volume: 0.3, Loop: true})
	p.Emit(lander.Event{Kind: lander.EventStopSound, Sound: lander.SoundThrust})

	assert.Equal(t, []played{{lander.SoundThrust, 0.3, true}}, player.plays)
	assert.Equal(t, []lander.Sound{lander.SoundThrust}, player.stops)
}

func TestPresenterMute(t *testing.T) {
	p, player, _, _ := newTestPresenter()

	assert.True(t, p.ToggleMute())
	assert.True(t, p.Muted())
	p.Emit(lander.Event{Kind: lander.EventPlaySound, Sound: lander.SoundExplosion, Volume: 1})
	p.Click()
	assert.Empty(t, player.plays)
	assert.Contains(t, player.stops, lander.SoundThrust)

	assert.False(t, p.ToggleMute())
	p.Click()
	assert.Equal(t, []played{{lander.SoundClick, 0.5, false}}, player.plays)
}

func TestPresenterParticles(t *testing.T) {
	p, _, particles, _ := newTestPresenter()

	p.Emit(lander.Event{Kind: lander.EventExplosion, X: 10, Y: 10})
	assert.Equal(t, 50, particles.Len())

	particles.Reset()
	p.Emit(lander.Event{Kind: lander.EventDust, X: 10, Y: 10})
	assert.Equal(t, 15, particles.Len())

	particles.Reset()
	p.Emit(lander.Event{Kind: lander.EventThrust, X: 10, Y: 10})
	assert.Equal(t, 5, particles.Len())

	particles.Reset()
	p.Emit(lander.Event{Kind: lander.EventFuelLeak, X: 10, Y: 10})
	assert.Equal(t, 1, particles.Len())
}

func TestPresenterNotices(t *testing.T) {
	p, _, _, now := newTestPresenter()

	_, _, ok := p.Notice()
	assert.False(t, ok)

	tests := []struct {
		event lander.Event
		text  string
		color draw.Color
	}{
		{lander.Event{Kind: lander.EventPlaySound, Sound: lander.SoundLowFuel}, "LOW FUEL", draw.ColorYellow},
		{lander.Event{Kind: lander.EventFuelLeakStarted}, "FUEL LEAK!", draw.ColorBrightRed},
		{lander.Event{Kind: lander.EventMalfunction}, "ENGINE MALFUNCTION!", draw.ColorBrightRed},
		{lander.Event{Kind: lander.EventMalfunctionCleared}, "Engine restored", draw.ColorGreen},
		{lander.Event{Kind: lander.EventNearMiss, Streak: 3}, "NEAR MISS! Streak x3", draw.ColorBrightYellow},
	}
	for _, tt := range tests {
		p.Emit(tt.event)
		text, color, ok := p.Notice()
		assert.True(t, ok, tt.text)
		assert.Equal(t, tt.text, text)
		assert.Equal(t, tt.color, color)
	}

	*now = now.Add(noticeDuration)
	_, _, ok = p.Notice()
	assert.False(t, ok, "notice expired")
}

func TestPresenterMissionEnded(t *testing.T) {
	p, player, _, _ := newTestPresenter()

	p.Emit(lander.Event{Kind: lander.EventFuelLeakStarted})
	p.Emit(lander.Event{Kind: lander.EventMissionEnded})

	_, _, ok := p.Notice()
	assert.False(t, ok)
	assert.Equal(t, []lander.Sound{lander.SoundThrust}, player.stops)

	p.Close()
	assert.True(t, player.closed)
}

func TestPresenterNilPlayer(t *testing.T) {
	p := NewPresenter(effects.NewSystem(rand.New(rand.NewSource(1))), nil, nil)
	assert.NotPanics(t, func() {
		p.Emit(lander.Event{Kind: lander.EventPlaySound, Sound: lander.SoundClick})
		p.Click()
		p.Close()
	})
}
