package input

import (
	"bufio"
	"sync/atomic"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminal input has no key-up events, so held movement keys are inferred from
// auto-repeat arriving within this window.
const keyHoldDuration = 150 * time.Millisecond

// Input represents the current frame's input state. Movement flags are
// level-triggered via the hold window; FireRed and FirePurple are
// edge-triggered from bytes seen this frame.
type Input struct {
	Quit   bool
	Escape bool
	Enter  bool
	Number int

	RedUp    bool
	RedDown  bool
	RedLeft  bool
	RedRight bool
	FireRed  bool

	PurpleUp    bool
	PurpleDown  bool
	PurpleLeft  bool
	PurpleRight bool
	FirePurple  bool

	Pressed []byte
}

// keyState tracks the last time each movement key was pressed.
type keyState struct {
	quit   time.Time
	escape time.Time
	enter  time.Time
	number time.Time

	redUp    time.Time
	redDown  time.Time
	redLeft  time.Time
	redRight time.Time

	purpleUp    time.Time
	purpleDown  time.Time
	purpleLeft  time.Time
	purpleRight time.Time

	numberVal int
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed atomic.Bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				s.closed.Store(true)
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Red steers with the arrow keys and fires with space; purple steers
// with WASD and fires with 'f'. Handles CSI escape sequences for the
// arrows.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

	// Drain all available bytes
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				goto parse
			}
			buf = append(buf, b)
		default:
			goto parse
		}
	}

parse:
	var fireRed, firePurple bool
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.redUp = now
				i += 2
				continue
			case 'B':
				s.state.redDown = now
				i += 2
				continue
			case 'C':
				s.state.redRight = now
				i += 2
				continue
			case 'D':
				s.state.redLeft = now
				i += 2
				continue
			}
		}

		switch b {
		case ' ':
			fireRed = true
		case 'f', 'F':
			firePurple = true
		default:
			applyByteToState(&s.state, b, now)
		}
	}

	input := Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Escape:  now.Sub(s.state.escape) < keyHoldDuration,
		Enter:   now.Sub(s.state.enter) < keyHoldDuration,
		Number:  -1,
		Pressed: buf,

		RedUp:    now.Sub(s.state.redUp) < keyHoldDuration,
		RedDown:  now.Sub(s.state.redDown) < keyHoldDuration,
		RedLeft:  now.Sub(s.state.redLeft) < keyHoldDuration,
		RedRight: now.Sub(s.state.redRight) < keyHoldDuration,
		FireRed:  fireRed,

		PurpleUp:    now.Sub(s.state.purpleUp) < keyHoldDuration,
		PurpleDown:  now.Sub(s.state.purpleDown) < keyHoldDuration,
		PurpleLeft:  now.Sub(s.state.purpleLeft) < keyHoldDuration,
		PurpleRight: now.Sub(s.state.purpleRight) < keyHoldDuration,
		FirePurple:  firePurple,
	}

	if now.Sub(s.state.number) < keyHoldDuration {
		input.Number = s.state.numberVal
	}

	return input
}

// Closed reports whether the reader goroutine has exited, which means
// the underlying reader reached EOF or errored.
func Closed(s *Stream) bool {
	return s.closed.Load()
}

// ResetKeyInput drains any buffered bytes and clears key state, so a
// keypress on one screen does not leak into the next.
func ResetKeyInput(s *Stream) {
	for {
		select {
		case _, ok := <-s.ch:
			if !ok {
				s.state = keyState{numberVal: -1}
				return
			}
		default:
			s.state = keyState{numberVal: -1}
			return
		}
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'w', 'W':
		state.purpleUp = now
	case 's', 'S':
		state.purpleDown = now
	case 'a', 'A':
		state.purpleLeft = now
	case 'd', 'D':
		state.purpleRight = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
}
