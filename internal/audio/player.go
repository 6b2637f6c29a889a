package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/lander/internal/lander"
)

const sampleRate = beep.SampleRate(44100)

// Player plays named sound effects. Implementations must not block.
type Player interface {
	Play(s lander.Sound, volume float64, loop bool)
	Stop(s lander.Sound)
	Close()
}

// Silent is a Player that does nothing.
type Silent struct{}

func (Silent) Play(lander.Sound, float64, bool) {}
func (Silent) Stop(lander.Sound)                {}
func (Silent) Close()                           {}

var (
	_ Player = Silent{}
	_ Player = (*Speaker)(nil)
)

// voice is a held sound that can be paused and resumed without rebuilding it.
type voice struct {
	ctrl *beep.Ctrl
	vol  *effects.Volume
}

// Speaker plays sounds on the local audio device through one shared mixer.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	voices      map[lander.Sound]*voice
	initialized bool
}

// NewSpeaker creates an uninitialized speaker. Calls before Init are ignored.
func NewSpeaker() *Speaker {
	return &Speaker{
		mixer:  &beep.Mixer{},
		voices: make(map[lander.Sound]*voice),
	}
}

// Init opens the audio device.
func (sp *Speaker) Init() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if sp.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sp.mixer)
	sp.initialized = true
	return nil
}

// Play starts a sound. A looping sound that is already playing only has its
// volume updated.
func (sp *Speaker) Play(s lander.Sound, volume float64, loop bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if !sp.initialized {
		return
	}

	if loop {
		if src := newLoop(s, sampleRate); src != nil || sp.voices[s] != nil {
			speaker.Lock()
			defer speaker.Unlock()
			if v, ok := sp.voices[s]; ok {
				setGain(v.vol, volume)
				v.ctrl.Paused = false
				return
			}
			vol := newVolume(src, volume)
			v := &voice{ctrl: &beep.Ctrl{Streamer: vol}, vol: vol}
			sp.voices[s] = v
			sp.mixer.Add(v.ctrl)
			return
		}
	}

	src := newEffect(s, sampleRate)
	if src == nil {
		return
	}
	speaker.Lock()
	sp.mixer.Add(newVolume(src, volume))
	speaker.Unlock()
}

// Stop pauses a looping sound. One-shot sounds run to completion.
func (sp *Speaker) Stop(s lander.Sound) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	v, ok := sp.voices[s]
	if !ok || !sp.initialized {
		return
	}
	speaker.Lock()
	v.ctrl.Paused = true
	speaker.Unlock()
}

// Close silences everything.
func (sp *Speaker) Close() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if !sp.initialized {
		return
	}
	speaker.Lock()
	for _, v := range sp.voices {
		v.ctrl.Paused = true
	}
	sp.mixer.Clear()
	speaker.Unlock()
	clear(sp.voices)
	sp.initialized = false
}
