package lander

// EventKind identifies a presentation intent.
type EventKind int

const (
	EventPlaySound           EventKind = iota // Start a sound
	EventStopSound                            // Stop a looping sound
	EventThrust                               // Exhaust particles at the nozzle
	EventExplosion                            // Debris burst
	EventDust                                 // Landing dust
	EventFuelLeak                             // Leak particles
	EventFuelLeakStarted                      // A fuel line broke
	EventMalfunction                          // Main engine cut out
	EventMalfunctionCleared                   // Main engine restored
	EventNearMiss                             // Close call, Streak is the new count
	EventMissionEnded                         // Terminal outcome, Reason set
)

// Sound names a sound effect.
type Sound string

const (
	SoundThrust    Sound = "thrust"
	SoundRotate    Sound = "rotate"
	SoundExplosion Sound = "explosion"
	SoundLandSoft  Sound = "land_soft"
	SoundLandHard  Sound = "land_hard"
	SoundSuccess   Sound = "success"
	SoundNearMiss  Sound = "near_miss"
	SoundLowFuel   Sound = "low_fuel"
	SoundClick     Sound = "click"
)

// Event is a fire-and-forget notification for the presentation layer.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Angle  float64
	Sound  Sound
	Volume float64
	Loop   bool
	Streak int
	Reason Reason
}

// Sink receives events. Implementations must not block.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

func playSound(sink Sink, s Sound, volume float64, loop bool) {
	sink.Emit(Event{Kind: EventPlaySound, Sound: s, Volume: volume, Loop: loop})
}

func stopSound(sink Sink, s Sound) {
	sink.Emit(Event{Kind: EventStopSound, Sound: s})
}
