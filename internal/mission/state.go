// Package mission runs a lander campaign: mission setup, the tick, the
// end-of-mission bookkeeping and the transitions between them.
package mission

import (
	"errors"
	"fmt"
)

// State is the phase of the game.
type State int

const (
	StateIdle   State = iota // Main menu
	StateSetup               // Mission being rolled
	StateActive              // Physics ticking
	StatePaused              // Frozen mid-flight
	StateEnded               // Landed or crashed, showing the result
)

var stateNames = [...]string{"idle", "setup", "active", "paused", "ended"}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrNotActive is returned by Tick outside the active state.
	ErrNotActive = errors.New("mission not active")
	// ErrNoPlanets is returned when a mission config has no planets.
	ErrNoPlanets = errors.New("no planets configured")
	// ErrInvalidConfig is returned for unusable world dimensions or difficulty.
	ErrInvalidConfig = errors.New("invalid mission config")
	// ErrPlanetsLocked is returned when advancing before the first landing.
	ErrPlanetsLocked = errors.New("planets locked until the first landing")
	// ErrCriticalTick wraps a failure inside a tick.
	ErrCriticalTick = errors.New("critical error during tick")
)

func transitionError(op string, from State) error {
	return fmt.Errorf("%s from %s: %w", op, from, ErrInvalidTransition)
}
