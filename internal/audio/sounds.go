package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/lander/internal/lander"
)

// tone is a single enveloped note.
func tone(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	attack := min(5*time.Millisecond, d/4)
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, attack, d/2, rate)
}

// newEffect builds a one-shot streamer for a sound, or nil if the sound is unknown.
func newEffect(s lander.Sound, rate beep.SampleRate) beep.Streamer {
	switch s {
	case lander.SoundThrust:
		d := 200 * time.Millisecond
		return NewEnvelope(beep.Take(rate.N(d), newRumble(180, rate)), d, 10*time.Millisecond, 100*time.Millisecond, rate)
	case lander.SoundRotate:
		return newVolume(tone(600, 40*time.Millisecond, WaveSquare, rate), 0.3)
	case lander.SoundExplosion:
		d := 700 * time.Millisecond
		return beep.Mix(
			NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 600*time.Millisecond, rate),
			newVolume(NewEnvelope(NewSweep(120, 40, d, WaveSaw, rate), d, 5*time.Millisecond, 500*time.Millisecond, rate), 0.5),
		)
	case lander.SoundLandSoft:
		return tone(220, 150*time.Millisecond, WaveSine, rate)
	case lander.SoundLandHard:
		d := 250 * time.Millisecond
		return beep.Mix(
			tone(110, d, WaveSaw, rate),
			newVolume(NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 2*time.Millisecond, 200*time.Millisecond, rate), 0.4),
		)
	case lander.SoundSuccess:
		note := 120 * time.Millisecond
		return beep.Seq(
			tone(523.25, note, WaveSine, rate),
			tone(659.25, note, WaveSine, rate),
			tone(783.99, note, WaveSine, rate),
			tone(1046.5, 2*note, WaveSine, rate),
		)
	case lander.SoundNearMiss:
		d := 180 * time.Millisecond
		return NewEnvelope(NewSweep(660, 1320, d, WaveSquare, rate), d, 5*time.Millisecond, 90*time.Millisecond, rate)
	case lander.SoundLowFuel:
		note := 150 * time.Millisecond
		return beep.Seq(
			tone(440, note, WaveSquare, rate),
			tone(330, note, WaveSquare, rate),
		)
	case lander.SoundClick:
		return tone(1000, 20*time.Millisecond, WaveSine, rate)
	}
	return nil
}

// newLoop builds an endless streamer for sounds that can be held, or nil.
func newLoop(s lander.Sound, rate beep.SampleRate) beep.Streamer {
	switch s {
	case lander.SoundThrust:
		return newRumble(180, rate)
	}
	return nil
}
