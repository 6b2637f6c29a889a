// Package input turns raw terminal bytes into held flight controls and
// one-shot menu commands.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 120 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	// Held controls, true while the key keeps repeating.
	Thrust      bool
	RotateLeft  bool
	RotateRight bool

	// Commands, true only on the frame the key arrived.
	Quit    bool
	Pause   bool
	Start   bool
	Next    bool
	Restart bool
	Menu    bool
	Mute    bool

	Pressed []byte // Raw bytes read this frame
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	thrust      time.Time
	rotateLeft  time.Time
	rotateRight time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The stream closes when r returns an error.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Reset forgets held keys so a press from the previous screen does not leak
// into the next one.
func (s *Stream) Reset() {
	s.state = keyState{}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

func (s *Stream) read(now time.Time) Input {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Pressed: buf, Quit: s.closed}
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' {
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				switch buf[i+2] {
				case 'A': // Up arrow
					s.state.thrust = now
				case 'D': // Left arrow
					s.state.rotateLeft = now
				case 'C': // Right arrow
					s.state.rotateRight = now
				}
				i += 2
				continue
			}
			in.Menu = true
			continue
		}
		applyByte(&s.state, &in, b, now)
	}

	in.Thrust = now.Sub(s.state.thrust) < keyHoldDuration
	in.RotateLeft = now.Sub(s.state.rotateLeft) < keyHoldDuration
	in.RotateRight = now.Sub(s.state.rotateRight) < keyHoldDuration
	return in
}

// applyByte updates held keys and sets commands for a single byte.
func applyByte(state *keyState, in *Input, b byte, now time.Time) {
	switch b {
	case 'w', 'W', ' ':
		state.thrust = now
	case 'a', 'A':
		state.rotateLeft = now
	case 'd', 'D':
		state.rotateRight = now
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'p', 'P':
		in.Pause = true
	case '\n', '\r':
		in.Start = true
	case 'n', 'N':
		in.Next = true
	case 'r', 'R':
		in.Restart = true
	case 'm', 'M':
		in.Menu = true
	case 's', 'S':
		in.Mute = true
	}
}
