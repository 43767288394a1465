package loop

import (
	"fmt"
	"math"

	"github.com/tomz197/orbitduel/internal/draw"
	"github.com/tomz197/orbitduel/internal/game"
	"github.com/tomz197/orbitduel/internal/geom"
	"github.com/tomz197/orbitduel/internal/object"
)

// worldMargin keeps the arena ring off the canvas edge.
const worldMargin = 40.0

// worldToCanvas maps game world coordinates (origin-centered) to the
// canvas's logical space.
func (s *session) worldToCanvas(p geom.Vec2) draw.Point {
	scale := s.worldScale()
	return draw.Point{
		X: targetWidth/2 + p.X*scale,
		Y: targetHeight/2 + p.Y*scale,
	}
}

func (s *session) worldScale() float64 {
	span := 2 * (s.engine.Tuning().ArenaRadius + worldMargin)
	return math.Min(targetWidth, targetHeight) / span
}

func (s *session) drawArena() {
	tune := s.engine.Tuning()
	scale := s.worldScale()
	center := s.worldToCanvas(geom.Vec2{})
	renderDist := s.perfMgr.Settings().RenderDistance

	// Arena boundary.
	s.canvas.DrawCircle(center, tune.ArenaRadius*scale, false)

	// Goal circles as dashed rings with their gravity dots.
	for i, g := range s.engine.Goals() {
		dashes := s.goalDashes
		if s.engine.GoalPulse(i) > 0 {
			dashes = 0 // pulse renders solid
		}
		c := s.worldToCanvas(g.Center)
		if dashes > 0 {
			s.canvas.DrawDashedCircle(c, g.Radius*scale, dashes)
		} else {
			s.canvas.DrawCircle(c, g.Radius*scale, false)
		}
	}
	for _, well := range s.engine.GravitySources() {
		s.canvas.DrawCircle(s.worldToCanvas(well.Pos), well.Radius*scale, true)
	}

	// Black hole with its roam boundary hinted at high detail.
	bh := s.engine.BlackHole()
	s.canvas.DrawCircle(s.worldToCanvas(bh.Pos), bh.Radius*scale, true)
	if s.perfMgr.Settings().HighQuality {
		s.canvas.DrawDashedCircle(s.worldToCanvas(bh.Pos), bh.MaxDistance*scale*renderDist, s.holeDashes)
	}

	// Square obstacle as a filled rotated polygon.
	sq := s.engine.Square()
	corners := sq.Corners()
	pts := s.canvas.BorrowPoints(len(corners))
	for i, c := range corners {
		pts[i] = s.worldToCanvas(c)
	}
	s.canvas.DrawPolygon(pts, !sq.IsPulsing())

	// Ships with momentum indicators.
	for _, side := range []object.Side{object.SideRed, object.SidePurple} {
		if p := s.engine.Player(side); p != nil {
			s.drawShip(p, scale)
		}
	}

	// Projectiles, with a short trail dot on tiers that keep particles.
	particles := s.perfMgr.Settings().Particles
	for _, pr := range s.engine.Projectiles() {
		if pr.Pos.Length() > tune.ArenaRadius*renderDist+tune.GoalRadius {
			continue
		}
		head := s.worldToCanvas(pr.Pos)
		s.canvas.SetFloat(head.X, head.Y)
		if particles {
			tail := s.worldToCanvas(pr.Pos.Sub(pr.Vel.Scale(0.5)))
			s.canvas.SetFloat(tail.X, tail.Y)
		}
	}
}

func (s *session) drawShip(p *game.Player, scale float64) {
	ship := p.Ship
	tune := s.engine.Tuning()
	pos := s.worldToCanvas(ship.Pos)
	radius := ship.Radius * scale

	// Damage flash renders the hull as an outline.
	s.canvas.DrawCircle(pos, radius, ship.PulseTimer == 0)

	// Momentum triangle ahead of the ship, sized by speed.
	info, ok := ship.Momentum(tune.ProjectileMinSpeed, tune.MaxSpeed, tune.MomentumMinSize, tune.MomentumMaxSize)
	if !ok {
		return
	}
	tip := ship.Pos.Add(geom.FromAngle(info.Angle).Scale(ship.Radius + info.Size))
	left := ship.Pos.Add(geom.FromAngle(info.Angle + 2.5).Scale(info.Size / 2))
	right := ship.Pos.Add(geom.FromAngle(info.Angle - 2.5).Scale(info.Size / 2))
	tri := s.canvas.BorrowPoints(3)
	tri[0] = s.worldToCanvas(tip)
	tri[1] = s.worldToCanvas(left)
	tri[2] = s.worldToCanvas(right)
	s.canvas.DrawPolygon(tri, false)
}

// drawShipLabels writes each side's tag above its ship, clamped to
// screen bounds so labels vanish near the edges instead of wrapping.
func (s *session) drawShipLabels() {
	termWidth := s.canvas.TerminalWidth()
	termHeight := s.canvas.TerminalHeight()
	scale := s.worldScale()

	for _, side := range []object.Side{object.SideRed, object.SidePurple} {
		p := s.engine.Player(side)
		if p == nil {
			continue
		}
		ship := p.Ship
		label := sideName(side)

		pos := s.worldToCanvas(ship.Pos)
		col, row := s.canvas.LogicalToTerminal(pos.X, pos.Y-ship.Radius*scale-3)
		col -= len(label) / 2

		if row < 2 || row > termHeight {
			continue
		}
		if col < 1 || col+len(label) > termWidth {
			continue
		}
		s.out.WriteAt(col, row, label)
	}
}

// drawHUD writes scores, hulls, limiter meters, and the detail tier as
// a text overlay on top of the rendered canvas.
func (s *session) drawHUD() {
	termWidth := s.canvas.TerminalWidth()
	termHeight := s.canvas.TerminalHeight()

	red := s.engine.Player(object.SideRed)
	purple := s.engine.Player(object.SidePurple)
	tune := s.engine.Tuning()

	left := fmt.Sprintf("RED %d  HP %d/%d %s", red.Score, red.HP, red.MaxHP(tune.InitialHitPoints), limiterMeter(red))
	s.out.WriteAt(2, 1, left)

	right := "WASD+F JOINS AS PURPLE"
	if purple != nil {
		right = fmt.Sprintf("%s HP %d/%d  %d PURPLE", limiterMeter(purple), purple.HP, purple.MaxHP(tune.InitialHitPoints), purple.Score)
	}
	s.out.WriteAt(termWidth-len(right)-1, 1, right)

	if s.engine.ScorePulse() > 0 {
		msg := "SCORE"
		s.out.WriteAt(termWidth/2-len(msg)/2, 2, msg)
	}

	report := s.engine.PerfReport()
	stats := s.engine.PoolStats()
	bottom := fmt.Sprintf("fps %.0f  lod %s (%s)  shots %d/%d", report.FPS, report.Level, report.Trend, stats.PeakActive, stats.TotalCreated)
	if n := s.engine.BroadPhaseItems(); n > 0 {
		bottom += fmt.Sprintf("  qt %d", n)
	}
	s.out.WriteAt(2, termHeight, bottom)
}

// limiterMeter renders firing capacity as a small bar, switching to a
// cooldown countdown display when the limiter trips.
func limiterMeter(p *game.Player) string {
	const width = 5
	progress := p.Limiter.Progress()

	// Shade the partially filled cell instead of rounding it away.
	bar := make([]rune, width)
	for i := range bar {
		bar[i] = draw.ShadeLevel(progress*width - float64(i))
	}

	switch p.Limiter.State() {
	case game.LimiterCooldown:
		return "[HOT " + string(bar) + "]"
	case game.LimiterWarning:
		return "[! " + string(bar) + "]"
	default:
		return "[" + string(bar) + "]"
	}
}
