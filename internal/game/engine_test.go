package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/orbitduel/internal/geom"
	"github.com/tomz197/orbitduel/internal/object"
	"github.com/tomz197/orbitduel/internal/perf"
)

func newTestEngine() *Engine {
	return newTestEngineTuned(DefaultTuning())
}

func newTestEngineTuned(tune Tuning) *Engine {
	e := NewEngine(tune, perf.NewManager(perf.LevelUltra, nil), rand.New(rand.NewSource(7)))
	e.JoinPurple()
	return e
}

// draftPick forces one powerup onto a side through the normal draft
// path so every side effect of acquisition runs.
func draftPick(e *Engine, side object.Side, pick Powerup) {
	e.phase = PhasePowerupDraft
	e.draftSide = side
	e.draft = []Powerup{pick}
	e.AcquirePowerup(0)
}

// parkShips moves both ships away from the goals, the square, and the
// black hole so scenario tests see no incidental collisions.
func parkShips(e *Engine) {
	e.Player(object.SideRed).Ship.Pos = geom.Vec2{Y: -500}
	e.Player(object.SidePurple).Ship.Pos = geom.Vec2{X: 200, Y: -500}
}

func TestGoalOverlapScoring(t *testing.T) {
	e := newTestEngine()
	parkShips(e)

	// Square fully inside the purple-owned goal on the +x side.
	goal := e.Goals()[1]
	e.Square().Pos = goal.Center

	for i := 0; i < e.tune.ScoreOverlapFrames-1; i++ {
		e.Step(FrameInput{})
	}
	if got := e.Player(goal.Owner).Score; got != 0 {
		t.Fatalf("score before full overlap duration = %d, want 0", got)
	}

	e.Step(FrameInput{})
	if got := e.Player(goal.Owner).Score; got != e.tune.SquareGoalPoints {
		t.Fatalf("score after overlap duration = %d, want %d", got, e.tune.SquareGoalPoints)
	}
	if !e.Square().Pos.IsZero() || !e.Square().Vel.IsZero() || e.Square().AngularVel != 0 {
		t.Errorf("square not reset after score: %+v", e.Square())
	}
	if e.overlapFrames[1] != 0 {
		t.Errorf("overlap timer not reset: %d", e.overlapFrames[1])
	}
}

func TestGoalOverlapTimerResetsOnExit(t *testing.T) {
	e := newTestEngine()
	parkShips(e)

	goal := e.Goals()[1]
	e.Square().Pos = goal.Center
	for i := 0; i < e.tune.ScoreOverlapFrames-5; i++ {
		e.Step(FrameInput{})
	}

	// Leaving the circle must restart the clock.
	e.Square().Pos = geom.Vec2{}
	e.Step(FrameInput{})
	e.Square().Pos = goal.Center
	for i := 0; i < e.tune.ScoreOverlapFrames-1; i++ {
		e.Step(FrameInput{})
	}
	if got := e.Player(goal.Owner).Score; got != 0 {
		t.Errorf("score = %d after interrupted overlap, want 0", got)
	}
}

func TestSelfFireImmunity(t *testing.T) {
	e := newTestEngine()
	parkShips(e)
	red := e.Player(object.SideRed)
	hp := red.HP

	// A fresh shot overlaps its firer but must not hit it.
	pr := e.pool.Acquire(red.Ship.Pos, geom.Vec2{}, object.SideRed, e.tune.ProjectileMass, e.tune.ProjectileRadius, e.tune.ProjectileDamage)
	if pr == nil {
		t.Fatal("pool refused a projectile")
	}
	e.Step(FrameInput{})
	if red.HP != hp {
		t.Fatalf("fresh projectile damaged its firer: hp %d -> %d", hp, red.HP)
	}
	if !pr.Active {
		t.Fatal("projectile deactivated without any contact")
	}

	// After any contact the same ship becomes a valid target.
	pr.HasMadeContact = true
	e.Step(FrameInput{})
	if red.HP != hp-e.tune.ProjectileDamage {
		t.Errorf("contacted projectile did not damage firer: hp %d", red.HP)
	}
	if pr.Active {
		t.Error("projectile survived a ship hit")
	}
}

func TestEnemyProjectileHitsImmediately(t *testing.T) {
	e := newTestEngine()
	parkShips(e)
	red := e.Player(object.SideRed)
	hp := red.HP

	e.pool.Acquire(red.Ship.Pos, geom.Vec2{}, object.SidePurple, e.tune.ProjectileMass, e.tune.ProjectileRadius, e.tune.ProjectileDamage)
	e.Step(FrameInput{})
	if red.HP != hp-e.tune.ProjectileDamage {
		t.Errorf("enemy projectile needed contact first: hp %d", red.HP)
	}
}

func TestHitPointDepletionScoring(t *testing.T) {
	e := newTestEngine()
	parkShips(e)
	red := e.Player(object.SideRed)
	purple := e.Player(object.SidePurple)

	red.HP = 0
	e.shipShipCooldown = 17
	e.Step(FrameInput{})

	if purple.Score != 1 {
		t.Errorf("opponent score = %d, want 1", purple.Score)
	}
	if red.HP != e.tune.InitialHitPoints || purple.HP != e.tune.InitialHitPoints {
		t.Errorf("hulls not reset: red %d purple %d", red.HP, purple.HP)
	}
	if e.shipShipCooldown != 0 {
		t.Errorf("collision cooldown not cleared: %d", e.shipShipCooldown)
	}
	if e.Phase() != PhasePlaying {
		t.Errorf("phase = %v, depletion alone must not end the round", e.Phase())
	}
}

func TestShootRequiresMomentum(t *testing.T) {
	e := newTestEngine()
	red := e.Player(object.SideRed)
	red.Ship.Vel = geom.Vec2{}

	if e.shoot(object.SideRed) {
		t.Error("stationary ship fired")
	}
	red.Ship.Vel = geom.Vec2{X: e.tune.ProjectileMinSpeed + 1}
	if !e.shoot(object.SideRed) {
		t.Error("moving ship could not fire")
	}
	if e.pool.ActiveCount() != 1 {
		t.Errorf("active projectiles = %d, want 1", e.pool.ActiveCount())
	}
}

func TestShootRespectsLODCap(t *testing.T) {
	tune := DefaultTuning()
	mgr := perf.NewManager(perf.LevelPotato, nil)
	e := NewEngine(tune, mgr, rand.New(rand.NewSource(7)))

	limit := mgr.Settings().ProjectileLimit
	for i := 0; i < limit; i++ {
		if e.pool.Acquire(geom.Vec2{X: float64(i) * 10}, geom.Vec2{}, object.SideRed, 5, 2, 1) == nil {
			t.Fatalf("pool refused projectile %d under the cap", i)
		}
	}

	red := e.Player(object.SideRed)
	red.Ship.Vel = geom.Vec2{X: 20}
	if e.shoot(object.SideRed) {
		t.Error("shot allowed at the LOD projectile cap")
	}
}

func TestShootRespectsRateLimiter(t *testing.T) {
	e := newTestEngine()
	red := e.Player(object.SideRed)
	red.Ship.Vel = geom.Vec2{X: 20}

	for i := 0; i < e.tune.RateLimitShots; i++ {
		if !e.shoot(object.SideRed) {
			t.Fatalf("shot %d rejected under the rate cap", i)
		}
	}
	if e.shoot(object.SideRed) {
		t.Error("shot allowed over the rate cap")
	}
}

func TestMultiShotFan(t *testing.T) {
	e := newTestEngine()
	red := e.Player(object.SideRed)
	red.Mods.Apply(PowerupMultiShot)
	red.Mods.Apply(PowerupMultiShot)
	red.Ship.Vel = geom.Vec2{X: 20}

	if !e.shoot(object.SideRed) {
		t.Fatal("volley rejected")
	}
	active := e.Projectiles()
	if len(active) != 3 {
		t.Fatalf("volley size = %d, want 3", len(active))
	}

	// Center shot flies fastest; all start just-launched.
	center := active[0].Vel.Length()
	for _, pr := range active[1:] {
		if pr.Vel.Length() >= center {
			t.Errorf("edge shot speed %f not below center %f", pr.Vel.Length(), center)
		}
		if !pr.JustLaunched {
			t.Error("volley member missing just-launched flag")
		}
	}
}

func TestBoundaryDamageEdgeTriggered(t *testing.T) {
	e := newTestEngine()
	parkShips(e)
	red := e.Player(object.SideRed)
	hp := red.HP

	red.Ship.Pos = geom.Vec2{X: e.tune.ArenaRadius + 10}
	red.Ship.Vel = geom.Vec2{X: 5}
	for i := 0; i < 10; i++ {
		e.Step(FrameInput{})
	}
	if red.HP != hp-e.tune.BoundaryDamage {
		t.Errorf("boundary damage = %d, want exactly %d", hp-red.HP, e.tune.BoundaryDamage)
	}
}

func TestWinAndDraftFlow(t *testing.T) {
	e := newTestEngine()
	parkShips(e)
	red := e.Player(object.SideRed)
	purple := e.Player(object.SidePurple)

	red.Score = e.tune.WinScore - 1
	purple.HP = 0
	e.Step(FrameInput{})

	if e.Phase() != PhaseRoundEnd {
		t.Fatalf("phase = %v at win threshold, want round end", e.Phase())
	}
	if e.Winner() != object.SideRed {
		t.Fatalf("winner = %v, want red", e.Winner())
	}

	// Simulation freezes outside the playing phase.
	pos := e.Square().Pos
	e.Square().Vel = geom.Vec2{X: 5}
	e.Step(FrameInput{})
	if e.Square().Pos != pos {
		t.Error("square moved during round end")
	}

	e.ContinueMatch()
	if e.Phase() != PhasePowerupDraft || e.DraftSide() != object.SidePurple {
		t.Fatalf("draft phase = %v for %v, want draft for the loser", e.Phase(), e.DraftSide())
	}
	if len(e.Draft()) != 3 {
		t.Fatalf("draft options = %d, want 3", len(e.Draft()))
	}

	pick := e.Draft()[1]
	e.AcquirePowerup(1)
	if e.Phase() != PhasePlaying {
		t.Fatalf("phase = %v after draft, want playing", e.Phase())
	}
	if red.Score != 0 || purple.Score != 0 {
		t.Errorf("scores not reset: %d / %d", red.Score, purple.Score)
	}
	if len(purple.Powerups) != 1 || purple.Powerups[0] != pick {
		t.Errorf("loser powerups = %v, want [%v]", purple.Powerups, pick)
	}
	if len(red.Powerups) != 0 {
		t.Errorf("winner drafted a powerup: %v", red.Powerups)
	}
}

func TestSquareShipDamageCooldown(t *testing.T) {
	e := newTestEngine()
	parkShips(e)
	red := e.Player(object.SideRed)
	hp := red.HP

	// Pin the ship against the square for several frames.
	for i := 0; i < 5; i++ {
		red.Ship.Pos = e.Square().Pos.Add(geom.Vec2{X: e.tune.SquareSize/2 + red.Ship.Radius/2})
		red.Ship.Vel = geom.Vec2{X: -2}
		e.Step(FrameInput{})
	}
	if red.HP != hp-1 {
		t.Errorf("repeated square contact cost %d hull, cooldown should limit it to 1", hp-red.HP)
	}
}

func TestDraftedUpgradesReachTheSimulation(t *testing.T) {
	e := newTestEngine()
	tune := e.Tuning()
	red := e.Player(object.SideRed)

	draftPick(e, object.SideRed, PowerupShipMass)
	if math.Abs(red.Ship.Mass-tune.ShipMass*1.5) > 1e-9 {
		t.Errorf("ship mass = %f, want %f", red.Ship.Mass, tune.ShipMass*1.5)
	}

	draftPick(e, object.SideRed, PowerupGoalGravity)
	if math.Abs(e.gravity[0].Strength-tune.GravityStrength*1.5) > 1e-9 {
		t.Errorf("own goal well strength = %f, want %f", e.gravity[0].Strength, tune.GravityStrength*1.5)
	}
	if e.gravity[1].Strength != tune.GravityStrength {
		t.Errorf("opponent goal well rescaled to %f", e.gravity[1].Strength)
	}

	draftPick(e, object.SideRed, PowerupMaxHitPoints)
	if got := red.MaxHP(tune.InitialHitPoints); got != 15 {
		t.Errorf("hull ceiling = %d, want 15", got)
	}
	if red.HP != 15 {
		t.Errorf("hull not refilled to the new ceiling: %d", red.HP)
	}

	draftPick(e, object.SideRed, PowerupProjectileSize)
	red.Ship.Vel = geom.Vec2{X: 20}
	if !e.shoot(object.SideRed) {
		t.Fatal("shot rejected")
	}
	pr := e.Projectiles()[0]
	if math.Abs(pr.Radius-tune.ProjectileRadius*1.5) > 1e-9 {
		t.Errorf("projectile radius = %f, want %f", pr.Radius, tune.ProjectileRadius*1.5)
	}
}

func TestSoloBeforeSecondShipJoins(t *testing.T) {
	e := NewEngine(DefaultTuning(), perf.NewManager(perf.LevelUltra, nil), rand.New(rand.NewSource(7)))
	if e.HasPurple() {
		t.Fatal("fresh engine already has a purple ship")
	}
	if e.Player(object.SidePurple) != nil {
		t.Fatal("purple player exists before joining")
	}

	red := e.Player(object.SideRed)
	red.Ship.Pos = geom.Vec2{Y: -500}
	for i := 0; i < 30; i++ {
		e.Step(FrameInput{})
	}

	red.HP = 0
	e.Step(FrameInput{})
	if red.HP != e.tune.InitialHitPoints {
		t.Errorf("hull not reset without an opponent: %d", red.HP)
	}
	if red.Score != 0 {
		t.Errorf("score = %d, nobody should score a solo depletion", red.Score)
	}

	e.JoinPurple()
	purple := e.Player(object.SidePurple)
	if purple == nil || purple.Ship.Side != object.SidePurple {
		t.Fatal("purple did not join")
	}
	if purple.Ship.Pos.X != -e.tune.GoalOffset {
		t.Errorf("purple spawn = %v, want inside the red goal", purple.Ship.Pos)
	}
	e.JoinPurple()
	if e.Player(object.SidePurple) != purple {
		t.Error("repeated join replaced the existing player")
	}
}

func TestSoloDraftFallsToWinner(t *testing.T) {
	e := NewEngine(DefaultTuning(), perf.NewManager(perf.LevelUltra, nil), rand.New(rand.NewSource(7)))
	red := e.Player(object.SideRed)
	red.Score = e.tune.WinScore
	e.checkWin()
	if e.Phase() != PhaseRoundEnd {
		t.Fatalf("phase = %v, want round end", e.Phase())
	}

	e.ContinueMatch()
	if e.DraftSide() != object.SideRed {
		t.Errorf("draft side = %v with no opponent, want the winner", e.DraftSide())
	}
}

func TestCollisionDamageFollowsTuning(t *testing.T) {
	tune := DefaultTuning()
	tune.ShipRamDamage = 3
	tune.SquareDamage = 2
	e := newTestEngineTuned(tune)

	red := e.Player(object.SideRed)
	purple := e.Player(object.SidePurple)
	redHP, purpleHP := red.HP, purple.HP

	// Overlapping ships far from every other hazard.
	red.Ship.Pos = geom.Vec2{Y: -500}
	purple.Ship.Pos = geom.Vec2{Y: -503}
	e.Step(FrameInput{})
	if red.HP != redHP-3 || purple.HP != purpleHP-3 {
		t.Errorf("ram damage = %d/%d, want 3/3", redHP-red.HP, purpleHP-purple.HP)
	}

	// Fresh engine so no cooldown carries over.
	e = newTestEngineTuned(tune)
	parkShips(e)
	red = e.Player(object.SideRed)
	redHP = red.HP
	red.Ship.Pos = e.Square().Pos.Add(geom.Vec2{X: tune.SquareSize/2 + red.Ship.Radius/2})
	red.Ship.Vel = geom.Vec2{X: -2}
	e.Step(FrameInput{})
	if red.HP != redHP-2 {
		t.Errorf("square contact damage = %d, want 2", redHP-red.HP)
	}
}

func TestDrainSounds(t *testing.T) {
	e := newTestEngine()
	e.emit(SoundShoot, 0.5)
	e.emit(SoundScore, 1)

	s := e.DrainSounds()
	if len(s) != 2 {
		t.Fatalf("drained %d events, want 2", len(s))
	}
	if len(e.DrainSounds()) != 0 {
		t.Error("drain did not clear the queue")
	}
}
