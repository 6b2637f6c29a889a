package lander

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/lander/internal/config"
)

// Thresholds are the landing tolerances.
type Thresholds struct {
	MaxVSpeed   float64
	MaxHSpeed   float64
	MaxRotation float64 // Degrees
}

// Impact is the lander state at the moment of surface contact.
type Impact struct {
	VSpeed   float64
	HSpeed   float64
	Rotation float64 // Absolute normalised angle in degrees
}

// ReasonCode classifies how a mission ended.
type ReasonCode int

const (
	ReasonNone          ReasonCode = iota // Landed
	ReasonMissedPad                       // Touched down off the pad
	ReasonTooFastV                        // Vertical speed over the limit
	ReasonTooFastH                        // Horizontal speed over the limit
	ReasonTilted                          // Angle over the limit
	ReasonBadLanding                      // Fallback
	ReasonObstacle                        // Hit a rock
	ReasonCriticalError                   // Tick failed
)

var reasonNames = map[ReasonCode]string{
	ReasonNone:          "landed",
	ReasonMissedPad:     "missed_pad",
	ReasonTooFastV:      "too_fast_vertical",
	ReasonTooFastH:      "too_fast_horizontal",
	ReasonTilted:        "tilted",
	ReasonBadLanding:    "bad_landing",
	ReasonObstacle:      "obstacle",
	ReasonCriticalError: "critical_error",
}

func (c ReasonCode) String() string {
	if s, ok := reasonNames[c]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", int(c))
}

// Reason is a failure code with its player-facing message.
type Reason struct {
	Code    ReasonCode
	Message string
}

// Classify decides whether a touchdown is a landing. On failure the reason is
// the first that applies in order: missed pad, vertical speed, horizontal
// speed, tilt, and a generic fallback.
func Classify(imp Impact, overlapsPad bool, th Thresholds) (bool, Reason) {
	if overlapsPad && imp.VSpeed <= th.MaxVSpeed && math.Abs(imp.HSpeed) <= th.MaxHSpeed && imp.Rotation <= th.MaxRotation {
		return true, Reason{Code: ReasonNone}
	}
	f := config.SpeedDisplayFactor
	switch {
	case !overlapsPad:
		return false, Reason{ReasonMissedPad, "Missed the pad!"}
	case imp.VSpeed > th.MaxVSpeed:
		return false, Reason{ReasonTooFastV, fmt.Sprintf("Too fast vertically! (%.1f > %.1f m/s)", imp.VSpeed*f, th.MaxVSpeed*f)}
	case math.Abs(imp.HSpeed) > th.MaxHSpeed:
		return false, Reason{ReasonTooFastH, fmt.Sprintf("Too fast horizontally! (%.1f > %.1f m/s)", math.Abs(imp.HSpeed)*f, th.MaxHSpeed*f)}
	case imp.Rotation > th.MaxRotation:
		return false, Reason{ReasonTilted, fmt.Sprintf("Tilted too much! (%.0f > %.0f deg)", imp.Rotation, th.MaxRotation)}
	default:
		return false, Reason{ReasonBadLanding, "Bad landing!"}
	}
}

// NearMiss tracks close calls with the surface.
type NearMiss struct {
	Streak int
	Last   time.Time
}

// Reset clears the streak after a crash.
func (n *NearMiss) Reset() {
	n.Streak = 0
	n.Last = time.Time{}
}

// Outcome is the result of one resolver pass.
type Outcome struct {
	Terminal bool
	Success  bool
	Reason   Reason
	Impact   *Impact // Set on surface contact only
}

// Resolve checks the lander against the surface, the obstacles and the
// near-miss band. It does nothing once the lander has landed or crashed.
func Resolve(l *Lander, env *Environment, nm *NearMiss, now time.Time, sink Sink) Outcome {
	if l.Done() {
		return Outcome{}
	}
	b := l.Bounds()
	th := env.Thresholds()

	if b.Bottom >= env.SurfaceY {
		l.Y -= b.Bottom - env.SurfaceY
		imp := Impact{
			VSpeed:   l.VY,
			HSpeed:   l.VX,
			Rotation: math.Abs(l.DisplayAngle()),
		}
		ok, reason := Classify(imp, b.OverlapsX(env.Pad.Left(), env.Pad.Right()), th)
		if ok {
			l.Landed = true
			l.VX, l.VY, l.Angle = 0, 0, 0
			l.Y = env.SurfaceY - l.Height/2
			stopSound(sink, SoundThrust)
			sink.Emit(Event{Kind: EventDust, X: l.X, Y: env.SurfaceY})
			if imp.VSpeed < th.MaxVSpeed*0.5 {
				playSound(sink, SoundLandSoft, 0.7, false)
			} else {
				playSound(sink, SoundLandHard, 0.7, false)
			}
			playSound(sink, SoundSuccess, 0.8, false)
		} else {
			crash(l, l.X, env.SurfaceY, sink)
		}
		return Outcome{Terminal: true, Success: ok, Reason: reason, Impact: &imp}
	}

	for _, o := range env.Obstacles {
		if b.Overlaps(o.Rect()) {
			cx, cy := b.Center()
			crash(l, cx, cy, sink)
			return Outcome{
				Terminal: true,
				Reason:   Reason{ReasonObstacle, "Collided with an obstacle!"},
			}
		}
	}

	checkNearMiss(l, env, th, nm, now, sink)
	return Outcome{}
}

func crash(l *Lander, x, y float64, sink Sink) {
	l.Crashed = true
	stopSound(sink, SoundThrust)
	sink.Emit(Event{Kind: EventExplosion, X: x, Y: y})
	playSound(sink, SoundExplosion, 0.8, false)
}

func checkNearMiss(l *Lander, env *Environment, th Thresholds, nm *NearMiss, now time.Time, sink Sink) {
	if nm == nil {
		return
	}
	if !nm.Last.IsZero() && now.Sub(nm.Last) < config.NearMissCooldown {
		return
	}
	bottom := l.Y + l.Height/2
	if math.Abs(bottom-env.SurfaceY) >= config.NearMissBand {
		return
	}
	if math.Abs(l.VY) <= th.MaxVSpeed*config.NearMissSpeedFrac && math.Abs(l.VX) <= th.MaxHSpeed*config.NearMissSpeedFrac {
		return
	}
	nm.Streak++
	nm.Last = now
	sink.Emit(Event{Kind: EventNearMiss, X: l.X, Y: l.Y, Streak: nm.Streak})
	playSound(sink, SoundNearMiss, 0.7, false)
}
