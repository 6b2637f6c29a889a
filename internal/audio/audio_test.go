package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/lander/internal/lander"
)

// drain streams s to completion, bounded by limit samples.
func drain(t *testing.T, s beep.Streamer, limit int) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for len(out) < limit {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	require.NoError(t, s.Err())
	return out
}

func TestOscillatorLengthAndRange(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		samples := drain(t, NewOscillator(440, 100*time.Millisecond, wave, sampleRate), 1<<20)
		assert.Len(t, samples, sampleRate.N(100*time.Millisecond))
		for _, s := range samples {
			assert.LessOrEqual(t, math.Abs(s[0]), 1.0)
			assert.Equal(t, s[0], s[1])
		}
	}
}

func TestSweepChangesPitch(t *testing.T) {
	// Count zero crossings in each half: the second half of an upward sweep crosses more often.
	samples := drain(t, NewSweep(200, 2000, time.Second, WaveSine, sampleRate), 1<<20)
	crossings := func(part [][2]float64) int {
		n := 0
		for i := 1; i < len(part); i++ {
			if (part[i-1][0] < 0) != (part[i][0] < 0) {
				n++
			}
		}
		return n
	}
	half := len(samples) / 2
	assert.Greater(t, crossings(samples[half:]), 2*crossings(samples[:half]))
}

func TestEnvelopeShapesEdges(t *testing.T) {
	d := 100 * time.Millisecond
	samples := drain(t, NewEnvelope(NewOscillator(0, d, WaveSquare, sampleRate), d, 10*time.Millisecond, 10*time.Millisecond, sampleRate), 1<<20)
	require.NotEmpty(t, samples)

	assert.InDelta(t, 0, samples[0][0], 1e-9, "starts silent")
	assert.InDelta(t, 1, samples[len(samples)/2][0], 1e-9, "full in sustain")
	assert.Less(t, samples[len(samples)-1][0], 0.01, "fades out")
}

func TestNewVolume(t *testing.T) {
	v := newVolume(NewOscillator(440, time.Millisecond, WaveSine, sampleRate), 0)
	assert.True(t, v.Silent)

	v = newVolume(NewOscillator(440, time.Millisecond, WaveSine, sampleRate), 0.5)
	assert.False(t, v.Silent)
	assert.InDelta(t, -1, v.Volume, 1e-9)

	setGain(v, 0)
	assert.True(t, v.Silent)
	setGain(v, 1)
	assert.False(t, v.Silent)
	assert.InDelta(t, 0, v.Volume, 1e-9)
}

func TestEveryEffectIsFinite(t *testing.T) {
	sounds := []lander.Sound{
		lander.SoundThrust, lander.SoundRotate, lander.SoundExplosion, lander.SoundLandSoft,
		lander.SoundLandHard, lander.SoundSuccess, lander.SoundNearMiss, lander.SoundLowFuel, lander.SoundClick,
	}
	for _, snd := range sounds {
		t.Run(string(snd), func(t *testing.T) {
			s := newEffect(snd, sampleRate)
			require.NotNil(t, s)
			samples := drain(t, s, sampleRate.N(5*time.Second))
			assert.NotEmpty(t, samples)
			assert.Less(t, len(samples), sampleRate.N(5*time.Second), "one-shot sounds end")
			for _, v := range samples {
				assert.False(t, math.IsNaN(v[0]) || math.IsInf(v[0], 0))
			}
		})
	}
	assert.Nil(t, newEffect("bogus", sampleRate))
}

func TestLoopIsEndless(t *testing.T) {
	s := newLoop(lander.SoundThrust, sampleRate)
	require.NotNil(t, s)
	samples := drain(t, s, sampleRate.N(time.Second))
	assert.GreaterOrEqual(t, len(samples), sampleRate.N(time.Second))
	for _, v := range samples {
		assert.LessOrEqual(t, math.Abs(v[0]), 1.0)
	}
	assert.Nil(t, newLoop(lander.SoundClick, sampleRate))
}

func TestPlayersWithoutDevice(t *testing.T) {
	var players = []Player{Silent{}, NewSpeaker()}
	for _, p := range players {
		assert.NotPanics(t, func() {
			p.Play(lander.SoundThrust, 0.3, true)
			p.Play(lander.SoundSuccess, 1, false)
			p.Stop(lander.SoundThrust)
			p.Close()
		})
	}
}
