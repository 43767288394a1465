// Package loop provides the main game loop: input, simulation step,
// and terminal rendering at a fixed frame rate.
package loop

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/orbitduel/internal/draw"
	"github.com/tomz197/orbitduel/internal/game"
	"github.com/tomz197/orbitduel/internal/geom"
	"github.com/tomz197/orbitduel/internal/input"
	"github.com/tomz197/orbitduel/internal/object"
	"github.com/tomz197/orbitduel/internal/perf"
)

const targetFPS = 60
const targetFrameTime = time.Second / targetFPS

// Target resolution - the renderer works in these logical dimensions.
// Actual output scales to fit terminal size. Height is in sub-pixels,
// so 120 means 60 terminal rows.
const (
	targetWidth  = 160
	targetHeight = 120
)

// Max terminal area the renderer will use. Larger terminals get the
// render area centered with a border around it.
const (
	maxTermWidth  = 160
	maxTermHeight = 60
)

// SoundPlayer receives the engine's audio cues. Nil disables sound.
type SoundPlayer interface {
	PlayAll([]game.SoundEvent)
}

// Options configures a game session.
type Options struct {
	// TermSizeFunc reports the terminal dimensions each frame. Nil
	// falls back to the local stdout size.
	TermSizeFunc draw.TermSizeFunc
	// Sound plays audio cues. Nil runs silent.
	Sound SoundPlayer
	// Logger receives LOD changes and session events. Nil discards.
	Logger *log.Logger
	// Seed fixes the RNG; zero seeds from the clock.
	Seed int64
}

// screen is the outer presentation state around the engine's phases.
type screen int

const (
	screenTitle screen = iota
	screenGame
)

// session holds everything one running game needs.
type session struct {
	engine  *game.Engine
	perfMgr *perf.Manager
	stream  *input.Stream
	canvas  *draw.Canvas
	out     *draw.ChunkWriter
	sound   SoundPlayer
	logger  *log.Logger

	screen  screen
	running bool

	// Ring detail derived from the tier's grid density; rebuilt when
	// the perf manager flags a level change.
	goalDashes int
	holeDashes int

	sizeFunc draw.TermSizeFunc
}

// applyDetail rebuilds the level-dependent render caches.
func (s *session) applyDetail() {
	density := s.perfMgr.Settings().GridDensity
	s.goalDashes = int(16 * density)
	s.holeDashes = int(24 * density)
}

// Run starts the game loop and blocks until the player quits or the
// input stream closes.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	sizeFunc := opts.TermSizeFunc
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	perfMgr := perf.NewManager(perf.LevelHigh, opts.Logger)
	tune := game.TuningFromEnv()

	s := &session{
		engine:   game.NewEngine(tune, perfMgr, rng),
		perfMgr:  perfMgr,
		stream:   input.StartStream(r),
		sound:    opts.Sound,
		logger:   opts.Logger,
		screen:   screenTitle,
		running:  true,
		sizeFunc: sizeFunc,
	}

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	termWidth, termHeight, err := draw.TerminalSizeRawWith(sizeFunc)
	if err != nil {
		return err
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	s.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, targetWidth, targetHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.out = draw.NewChunkWriter(w, offsetCol, offsetRow)
	s.applyDetail()

	for s.running {
		frameStart := time.Now()
		perfMgr.RecordFrame(frameStart)
		if perfMgr.ConsumeDirty() {
			s.applyDetail()
		}

		inp := input.ReadInput(s.stream)
		if inp.Quit {
			s.running = false
			break
		}
		if len(inp.Pressed) == 0 && streamClosed(s.stream) {
			s.running = false
			break
		}

		if err := s.resize(); err != nil {
			return err
		}

		s.update(inp)
		s.drawFrame(w)

		if s.sound != nil {
			s.sound.PlayAll(s.engine.DrainSounds())
		} else {
			s.engine.DrainSounds()
		}

		elapsed := time.Since(frameStart)
		if elapsed < targetFrameTime {
			time.Sleep(targetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(w)
	return nil
}

// streamClosed reports whether the input goroutine has exited, which
// happens when the underlying reader hits EOF (e.g. SSH disconnect).
func streamClosed(s *input.Stream) bool {
	return input.Closed(s)
}

func (s *session) resize() error {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(s.sizeFunc)
	if err != nil {
		return err
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.out.SetOffset(offsetCol, offsetRow)
	return nil
}

// clampTermSize limits the render area to the max resolution and centers
// it in larger terminals.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > maxTermWidth {
		renderWidth = maxTermWidth
	}
	if renderHeight > maxTermHeight {
		renderHeight = maxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return renderWidth, renderHeight, offsetCol, offsetRow
}

func (s *session) update(inp input.Input) {
	switch s.screen {
	case screenTitle:
		if inp.Enter || inp.FireRed {
			input.ResetKeyInput(s.stream)
			s.screen = screenGame
			if s.logger != nil {
				s.logger.Info("match started")
			}
		}
	case screenGame:
		s.updateGame(inp)
	}
}

func (s *session) updateGame(inp input.Input) {
	switch s.engine.Phase() {
	case game.PhasePlaying:
		if !s.engine.HasPurple() && purpleActive(inp) {
			s.engine.JoinPurple()
			if s.logger != nil {
				s.logger.Info("purple joined")
			}
		}
		s.engine.Step(frameInput(inp))
	case game.PhaseRoundEnd:
		s.engine.Step(game.FrameInput{})
		if inp.Enter || inp.FireRed {
			input.ResetKeyInput(s.stream)
			s.engine.ContinueMatch()
		}
	case game.PhasePowerupDraft:
		s.engine.Step(game.FrameInput{})
		if n := inp.Number; n >= 1 && n <= len(s.engine.Draft()) {
			input.ResetKeyInput(s.stream)
			s.engine.AcquirePowerup(n - 1)
		}
	}
}

// purpleActive reports whether any purple control was touched this
// frame, which is how the second player joins mid-match.
func purpleActive(inp input.Input) bool {
	return inp.PurpleUp || inp.PurpleDown || inp.PurpleLeft || inp.PurpleRight || inp.FirePurple
}

// frameInput converts raw key state into per-player thrust directions
// and fire intents.
func frameInput(inp input.Input) game.FrameInput {
	return game.FrameInput{
		Red: game.PlayerInput{
			Accel: steer(inp.RedLeft, inp.RedRight, inp.RedUp, inp.RedDown),
			Fire:  inp.FireRed,
		},
		Purple: game.PlayerInput{
			Accel: steer(inp.PurpleLeft, inp.PurpleRight, inp.PurpleUp, inp.PurpleDown),
			Fire:  inp.FirePurple,
		},
	}
}

// steer builds a unit thrust vector from four directional keys.
func steer(left, right, up, down bool) geom.Vec2 {
	var v geom.Vec2
	if left {
		v.X--
	}
	if right {
		v.X++
	}
	if up {
		v.Y--
	}
	if down {
		v.Y++
	}
	return v.Normalize()
}

func (s *session) drawFrame(w io.Writer) {
	draw.ClearScreen(w)
	s.canvas.Clear()

	switch s.screen {
	case screenTitle:
		s.drawTitleScreen()
	case screenGame:
		switch s.engine.Phase() {
		case game.PhasePlaying:
			s.drawArena()
			s.canvas.Render(s.out)
			s.canvas.RenderBorder(s.out)
			s.drawShipLabels()
			s.drawHUD()
		case game.PhaseRoundEnd:
			s.drawRoundEndScreen()
		case game.PhasePowerupDraft:
			s.drawDraftScreen()
		}
	}

	s.out.Flush()
}

// sideName gives the display label for a side.
func sideName(side object.Side) string {
	if side == object.SideRed {
		return "RED"
	}
	return "PURPLE"
}
