// Package audio synthesizes short tones for gameplay events. Playback
// is best effort: if the speaker cannot initialize, every call becomes
// a no-op and the game runs silent.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/orbitduel/internal/game"
)

const sampleRate = beep.SampleRate(44100)

type waveType int

const (
	waveSine waveType = iota
	waveSquare
	waveSaw
)

// tone describes one synthesized cue.
type tone struct {
	freq     float64
	duration time.Duration
	attack   time.Duration
	release  time.Duration
	wave     waveType
	volume   float64
}

var tones = map[game.SoundKind]tone{
	game.SoundShoot:      {freq: 880, duration: 60 * time.Millisecond, attack: 2 * time.Millisecond, release: 40 * time.Millisecond, wave: waveSquare, volume: 0.35},
	game.SoundShipHit:    {freq: 220, duration: 120 * time.Millisecond, attack: 2 * time.Millisecond, release: 80 * time.Millisecond, wave: waveSaw, volume: 0.5},
	game.SoundSquareHit:  {freq: 330, duration: 90 * time.Millisecond, attack: 2 * time.Millisecond, release: 60 * time.Millisecond, wave: waveSine, volume: 0.45},
	game.SoundWallBounce: {freq: 140, duration: 80 * time.Millisecond, attack: 2 * time.Millisecond, release: 50 * time.Millisecond, wave: waveSine, volume: 0.3},
	game.SoundScore:      {freq: 660, duration: 250 * time.Millisecond, attack: 5 * time.Millisecond, release: 150 * time.Millisecond, wave: waveSine, volume: 0.6},
	game.SoundRoundWin:   {freq: 523, duration: 500 * time.Millisecond, attack: 10 * time.Millisecond, release: 300 * time.Millisecond, wave: waveSine, volume: 0.7},
	game.SoundPowerup:    {freq: 1047, duration: 200 * time.Millisecond, attack: 5 * time.Millisecond, release: 120 * time.Millisecond, wave: waveSquare, volume: 0.4},
}

// Player owns the speaker and mixes one-shot tones.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer prepares an uninitialized player. Call Init before Play;
// an Init failure leaves the player permanently silent.
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Safe to call once per process.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues the cue for an event, scaling its base volume by the
// event's impact volume. Unknown kinds and an uninitialized speaker
// are ignored.
func (p *Player) Play(ev game.SoundEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	t, ok := tones[ev.Kind]
	if !ok {
		return
	}

	osc := newOscillator(t.freq, t.duration, t.wave)
	shaped := newEnvelope(osc, t.duration, t.attack, t.release)
	speaker.Lock()
	p.mixer.Add(newVolume(shaped, t.volume*ev.Volume))
	speaker.Unlock()
}

// PlayAll drains a frame's worth of events.
func (p *Player) PlayAll(events []game.SoundEvent) {
	for _, ev := range events {
		p.Play(ev)
	}
}

// Close silences the mixer. The speaker itself has no close call.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// oscillator streams a fixed-length raw wave.
type oscillator struct {
	freq     float64
	phase    float64
	wave     waveType
	total    int
	position int
}

func newOscillator(freq float64, duration time.Duration, wave waveType) beep.Streamer {
	return &oscillator{freq: freq, wave: wave, total: sampleRate.N(duration)}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.position >= o.total {
			return i, false
		}

		var val float64
		switch o.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case waveSaw:
			val = 2 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release ramps to a stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   sampleRate.N(attack),
		release:  sampleRate.N(release),
		total:    sampleRate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, false
		}

		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; remaining < e.release && e.release > 0 {
			vol = float64(remaining) / float64(e.release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps a streamer with logarithmic gain. Zero or negative
// gain mutes outright since log2(0) is undefined.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
