// Package game implements the arena simulation: two ships, a rotating
// square obstacle, gravity wells, projectiles, and round-based scoring.
package game

import (
	"math"
	"math/rand"

	"github.com/tomz197/orbitduel/internal/geom"
	"github.com/tomz197/orbitduel/internal/object"
	"github.com/tomz197/orbitduel/internal/perf"
)

// Phase is the match state driving which pipeline steps run.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseRoundEnd
	PhasePowerupDraft
)

// Goal is a static scoring circle owned by one side.
type Goal struct {
	Center geom.Vec2
	Radius float64
	Owner  object.Side
}

// Player bundles the per-side state the engine owns for one side.
type Player struct {
	Ship     *object.Ship
	HP       int
	Score    int
	Limiter  *RateLimiter
	Mods     Modifiers
	Powerups []Powerup

	regenTimer  int
	outsideWall bool // was outside the boundary last frame
	spawn       geom.Vec2
}

// MaxHP is the side's current hull ceiling including drafted bonuses.
func (p *Player) MaxHP(base int) int {
	return int(float64(base) * p.Mods.MaxHPFactor)
}

// Engine owns every entity and runs the fixed per-frame pipeline. The
// red ship always exists; the purple slot stays nil until a second
// player joins, so every per-player path checks for it.
// All access is single-threaded; callers read state between Step calls.
type Engine struct {
	tune Tuning
	rng  *rand.Rand
	perf *perf.Manager
	pool *object.ProjectilePool

	players   [2]*Player
	square    *object.Square
	blackHole *object.BlackHole
	gravity   []*object.GravitySource
	goals     [2]Goal

	phase     Phase
	winner    object.Side
	draft     []Powerup
	draftSide object.Side

	frame         uint64
	overlapFrames [2]int
	scorePulse    int
	goalPulse     [2]int

	// damageCooldown gates repeat square and boundary hits per player;
	// shipShipCooldown gates the ship pair.
	damageCooldown   [2]int
	shipShipCooldown int

	// broadPhaseItems is how many projectiles the last frame's quadtree
	// indexed, zero when the direct pairwise path ran.
	broadPhaseItems int

	sounds []SoundEvent

	// reused across frames to avoid per-frame allocation
	activeBuf []*object.Projectile
	allWells  []*object.GravitySource
}

// NewEngine builds a fresh match with only the red ship present.
// perfMgr may be shared with the host loop so render and simulation
// LOD agree.
func NewEngine(tune Tuning, perfMgr *perf.Manager, rng *rand.Rand) *Engine {
	e := &Engine{
		tune: tune,
		rng:  rng,
		perf: perfMgr,
		pool: object.NewProjectilePool(tune.PoolInitialSize, tune.PoolMaxSize),
	}

	// Each ship spawns inside the opponent's goal circle.
	e.players[object.SideRed] = newPlayer(object.SideRed, geom.Vec2{X: tune.GoalOffset}, tune)

	e.square = object.NewSquare(geom.Vec2{}, tune.SquareMass, tune.SquareSize, tune.MomentOfInertiaFactor)

	e.goals[0] = Goal{Center: geom.Vec2{X: -tune.GoalOffset}, Radius: tune.GoalRadius, Owner: object.SideRed}
	e.goals[1] = Goal{Center: geom.Vec2{X: tune.GoalOffset}, Radius: tune.GoalRadius, Owner: object.SidePurple}

	// A gravity dot sits at the heart of each goal; a weaker well sits
	// at the arena center.
	for _, g := range e.goals {
		e.gravity = append(e.gravity, &object.GravitySource{
			Pos:         g.Center,
			Radius:      tune.GravityDotRadius,
			Strength:    tune.GravityStrength,
			MaxDistance: tune.GravityMaxDistance,
			Falloff:     tune.GravityFalloff,
		})
	}
	e.gravity = append(e.gravity, &object.GravitySource{
		Pos:         geom.Vec2{},
		Radius:      tune.GravityDotRadius,
		Strength:    tune.GravityStrength / 2,
		MaxDistance: tune.GravityMaxDistance / 2,
		Falloff:     tune.GravityFalloff,
	})

	e.blackHole = object.NewBlackHole(object.GravitySource{
		Pos:         geom.Vec2{Y: tune.GoalOffset / 2},
		Radius:      tune.BlackHoleRadius,
		Strength:    tune.BlackHoleStrength,
		MaxDistance: tune.GravityMaxDistance,
		Falloff:     tune.GravityFalloff,
	}, tune.BlackHoleRoam, tune.BlackHoleDrift, tune.BlackHoleMaxSpeed)

	e.allWells = append(append([]*object.GravitySource{}, e.gravity...), &e.blackHole.GravitySource)

	return e
}

func newPlayer(side object.Side, spawn geom.Vec2, tune Tuning) *Player {
	return &Player{
		Ship:    object.NewShip(side, spawn, tune.ShipMass, tune.ShipRadius),
		HP:      tune.InitialHitPoints,
		Limiter: NewRateLimiter(tune.RateLimitShots, tune.RateLimitWindow, tune.RateLimitCooldown),
		Mods:    NewModifiers(),
		spawn:   spawn,
	}
}

// JoinPurple spawns the second ship mid-match. It is a no-op when the
// purple side already exists.
func (e *Engine) JoinPurple() {
	if e.players[object.SidePurple] != nil {
		return
	}
	e.players[object.SidePurple] = newPlayer(object.SidePurple, geom.Vec2{X: -e.tune.GoalOffset}, e.tune)
}

// HasPurple reports whether the second ship has joined.
func (e *Engine) HasPurple() bool {
	return e.players[object.SidePurple] != nil
}

// Step advances the simulation one frame. Outside the Playing phase
// only cosmetic timers tick; entities freeze.
func (e *Engine) Step(in FrameInput) {
	e.frame++
	if e.phase != PhasePlaying {
		e.tickEffectTimers()
		return
	}

	settings := e.perf.Settings()

	// 1. Input to acceleration and fire intent.
	e.applyInput(object.SideRed, in.Red)
	e.applyInput(object.SidePurple, in.Purple)

	// 2. Integrate ships, square, black hole.
	for _, p := range e.players {
		if p == nil {
			continue
		}
		hitWall := p.Ship.UpdatePhysics(
			e.tune.Friction,
			e.tune.MaxSpeed*p.Mods.MaxSpeedFactor,
			e.tune.BounceFactor,
			e.tune.ArenaRadius,
		)
		e.handleBoundaryHit(p, hitWall)
	}
	e.square.UpdatePhysics(
		e.tune.SquareFriction,
		e.tune.AngularFriction,
		e.tune.MaxAngularVelocity,
		e.tune.BounceFactor,
		e.tune.ArenaRadius,
	)
	e.blackHole.Update(e.rng)

	// 3. Gravity on the square and projectiles, LOD gated.
	applyGravity := !e.perf.ShouldSkip(settings.GravitySkip, e.frame)
	if applyGravity {
		for _, g := range e.allGravity() {
			e.square.Vel = e.square.Vel.Add(g.Pull(e.square.Pos))
		}
	}

	// 4. Black hole gravity on the ships.
	for _, p := range e.players {
		if p == nil {
			continue
		}
		p.Ship.Vel = p.Ship.Vel.Add(e.blackHole.Pull(p.Ship.Pos))
	}

	// 5. Step projectiles.
	e.activeBuf = e.pool.Active(e.activeBuf[:0])
	for _, pr := range e.activeBuf {
		if applyGravity {
			for _, g := range e.allGravity() {
				pr.Vel = pr.Vel.Add(g.Pull(pr.Pos))
			}
		}
		prevContact := pr.HasMadeContact
		pr.UpdatePhysics(e.tune.BounceFactor, e.tune.ArenaRadius)
		if pr.HasMadeContact && !prevContact {
			e.emit(SoundWallBounce, impactVolume(pr.Vel.Length(), e.tune.MaxSpeed))
		}
	}
	e.clearSeparatedVolleys()

	// 6. Collisions.
	e.resolveCollisions()

	// 7. Cooldown tick.
	e.tickCooldowns()

	// 8. HP depletion scoring.
	e.checkHitPoints()

	// 9. Goal overlap scoring.
	if e.phase == PhasePlaying {
		e.checkGoalOverlap()
	}

	// 10. Cosmetic timers.
	e.tickEffectTimers()
	e.pool.ReleaseInactive()
}

func (e *Engine) applyInput(side object.Side, in PlayerInput) {
	p := e.players[side]
	if p == nil {
		return
	}
	accel := e.tune.Acceleration * p.Mods.AccelFactor
	p.Ship.Accel = in.Accel.Scale(accel)
	if in.Fire {
		e.shoot(side)
	}
}

// shoot fires a volley if the LOD cap, the rate limiter, and the
// minimum aim speed all allow it.
func (e *Engine) shoot(side object.Side) bool {
	p := e.players[side]
	if p == nil {
		return false
	}
	if e.pool.ActiveCount() >= e.perf.Settings().ProjectileLimit {
		return false
	}
	dir, ok := p.Ship.AimDirection(e.tune.ProjectileMinSpeed)
	if !ok {
		return false
	}
	if !p.Limiter.TryShoot() {
		return false
	}

	count := 1 + p.Mods.ExtraProjectiles
	speed := math.Max(p.Ship.Speed()*2, e.tune.ProjectileMinSpeed*2) * p.Mods.ProjSpeedFactor
	spread := e.tune.MultiShotSpreadDeg * math.Pi / 180

	fired := 0
	for i := 0; i < count; i++ {
		// Fan offsets alternate around the center: 0, +1, -1, +2, ...
		slot := (i + 1) / 2
		if i%2 == 0 {
			slot = -slot
		}
		aim := dir.Rotate(float64(slot) * spread)
		// Center of the fan flies fastest.
		vel := aim.Scale(speed * math.Pow(e.tune.MultiShotSpeedFactor, math.Abs(float64(slot))))
		pr := e.pool.Acquire(
			p.Ship.Pos.Add(dir.Scale(p.Ship.Radius)),
			vel,
			side,
			e.tune.ProjectileMass*p.Mods.ProjMassFactor,
			e.tune.ProjectileRadius*p.Mods.ProjRadiusFactor,
			e.tune.ProjectileDamage+p.Mods.DamageBonus,
		)
		if pr == nil {
			break
		}
		pr.MaxBounces += p.Mods.ExtraBounces
		fired++
	}
	if fired > 0 {
		e.emit(SoundShoot, impactVolume(p.Ship.Speed(), e.tune.MaxSpeed))
	}
	return fired > 0
}

// clearSeparatedVolleys drops the just-launched flag once a projectile
// no longer overlaps any sibling from its own volley.
func (e *Engine) clearSeparatedVolleys() {
	e.activeBuf = e.pool.Active(e.activeBuf[:0])
	for _, pr := range e.activeBuf {
		if !pr.JustLaunched {
			continue
		}
		separated := true
		for _, other := range e.activeBuf {
			if other == pr || !other.JustLaunched || other.Owner != pr.Owner {
				continue
			}
			if pr.Pos.Distance(other.Pos) < pr.Radius+other.Radius {
				separated = false
				break
			}
		}
		if separated {
			pr.JustLaunched = false
		}
	}
}

func (e *Engine) handleBoundaryHit(p *Player, hitWall bool) {
	// Edge trigger: damage only on the frame the wall is first hit,
	// not continuously while pinned against it.
	side := p.Ship.Side
	if hitWall && !p.outsideWall && e.damageCooldown[side] == 0 {
		if e.damagePlayer(p, e.tune.BoundaryDamage) {
			e.damageCooldown[side] = e.tune.CollisionCooldown
			e.emit(SoundShipHit, impactVolume(p.Ship.Speed(), e.tune.MaxSpeed))
		}
	}
	p.outsideWall = hitWall
}

// damagePlayer applies damage respecting no cooldown of its own; the
// caller gates repeat hits. Returns true if damage landed.
func (e *Engine) damagePlayer(p *Player, dmg int) bool {
	if dmg <= 0 {
		return false
	}
	p.HP -= dmg
	p.Ship.TriggerPulse(e.tune.PulseFrames)
	return true
}

func (e *Engine) tickCooldowns() {
	for i := range e.damageCooldown {
		if e.damageCooldown[i] > 0 {
			e.damageCooldown[i]--
		}
	}
	if e.shipShipCooldown > 0 {
		e.shipShipCooldown--
	}
}

// checkHitPoints awards a point to the opponent of any depleted side,
// resets both hulls, and ends the round at the win threshold. With no
// opponent joined the hull still resets, but nobody scores.
func (e *Engine) checkHitPoints() {
	depleted := false
	for _, p := range e.players {
		if p == nil || p.HP > 0 {
			continue
		}
		if opponent := e.players[p.Ship.Side.Opponent()]; opponent != nil {
			opponent.Score++
		}
		depleted = true
	}
	if !depleted {
		return
	}

	for _, p := range e.players {
		if p == nil {
			continue
		}
		p.HP = p.MaxHP(e.tune.InitialHitPoints)
	}
	for i := range e.damageCooldown {
		e.damageCooldown[i] = 0
	}
	e.shipShipCooldown = 0
	e.scorePulse = e.tune.PulseFrames * 3
	e.emit(SoundScore, 1)
	e.checkWin()
}

// checkGoalOverlap scores when the square stays fully inside one goal
// circle for the required number of consecutive frames. An unowned
// goal still ejects the square so it cannot settle there, but awards
// nothing.
func (e *Engine) checkGoalOverlap() {
	reach := e.square.HalfDiagonal()
	for i, g := range e.goals {
		inside := e.square.Pos.Distance(g.Center)+reach <= g.Radius
		if !inside {
			e.overlapFrames[i] = 0
			continue
		}
		// Full containment in one circle excludes the other, but a
		// fresh entry restarts the other circle's timer regardless.
		e.overlapFrames[1-i] = 0
		e.overlapFrames[i]++
		if e.overlapFrames[i] < e.tune.ScoreOverlapFrames {
			continue
		}

		if owner := e.players[g.Owner]; owner != nil {
			owner.Score += e.tune.SquareGoalPoints
		}
		e.overlapFrames[i] = 0
		e.square.Respawn(geom.Vec2{})
		e.pool.ClearAll()
		e.goalPulse[i] = e.tune.PulseFrames * 3
		e.scorePulse = e.tune.PulseFrames * 3
		e.emit(SoundScore, 1)
		e.checkWin()
		return
	}
}

// checkWin moves the match to RoundEnd once a side reaches the score
// threshold.
func (e *Engine) checkWin() {
	for _, p := range e.players {
		if p == nil {
			continue
		}
		if p.Score >= e.tune.WinScore {
			e.winner = p.Ship.Side
			e.phase = PhaseRoundEnd
			e.emit(SoundRoundWin, 1)
			return
		}
	}
}

// ContinueMatch leaves the round-end screen and opens the powerup
// draft for the loser. With no second player the winner drafts.
func (e *Engine) ContinueMatch() {
	if e.phase != PhaseRoundEnd {
		return
	}
	e.draftSide = e.winner.Opponent()
	if e.players[e.draftSide] == nil {
		e.draftSide = e.winner
	}
	e.draft = DraftOptions(e.rng, 3)
	e.phase = PhasePowerupDraft
}

// AcquirePowerup applies the drafted option and starts the next round.
// option indexes the current draft; out-of-range picks nothing.
func (e *Engine) AcquirePowerup(option int) {
	if e.phase != PhasePowerupDraft {
		return
	}
	p := e.players[e.draftSide]
	if p != nil && option >= 0 && option < len(e.draft) {
		pick := e.draft[option]
		p.Mods.Apply(pick)
		p.Powerups = append(p.Powerups, pick)
		// Hull size and mass modifiers change the physical ship, not
		// just the rendered shape.
		p.Ship.Radius = e.tune.ShipRadius * p.Mods.RadiusFactor
		p.Ship.Mass = e.tune.ShipMass * p.Mods.ShipMassFactor
		switch pick {
		case PowerupFireRate:
			shots := int(float64(e.tune.RateLimitShots) * p.Mods.FireRateFactor)
			p.Limiter = NewRateLimiter(shots, e.tune.RateLimitWindow, e.tune.RateLimitCooldown)
		case PowerupGoalGravity:
			e.boostGoalGravity(e.draftSide, p.Mods.GoalGravityFactor)
		}
		e.emit(SoundPowerup, 1)
	}
	e.resetRound()
	e.phase = PhasePlaying
}

// boostGoalGravity rescales the well sitting in the side's own goal.
// The wells were appended in goal order, so indices line up.
func (e *Engine) boostGoalGravity(side object.Side, factor float64) {
	for i, g := range e.goals {
		if g.Owner == side {
			e.gravity[i].Strength = e.tune.GravityStrength * factor
		}
	}
}

func (e *Engine) resetRound() {
	for _, p := range e.players {
		if p == nil {
			continue
		}
		p.Score = 0
		p.HP = p.MaxHP(e.tune.InitialHitPoints)
		p.Ship.Pos = p.spawn
		p.Ship.Vel = geom.Vec2{}
		p.Ship.Accel = geom.Vec2{}
		p.Limiter.Reset()
		p.regenTimer = 0
		p.outsideWall = false
	}
	e.square.Respawn(geom.Vec2{})
	e.pool.ClearAll()
	for i := range e.overlapFrames {
		e.overlapFrames[i] = 0
	}
	e.draft = nil
}

// tickEffectTimers handles the engine-owned timers. Entity pulse
// timers tick inside their own UpdatePhysics.
func (e *Engine) tickEffectTimers() {
	for _, p := range e.players {
		if p == nil {
			continue
		}
		if e.phase == PhasePlaying && p.Mods.RegenInterval > 0 {
			p.regenTimer++
			if p.regenTimer >= p.Mods.RegenInterval {
				p.regenTimer = 0
				if max := p.MaxHP(e.tune.InitialHitPoints); p.HP < max {
					p.HP++
				}
			}
		}
	}
	if e.scorePulse > 0 {
		e.scorePulse--
	}
	for i := range e.goalPulse {
		if e.goalPulse[i] > 0 {
			e.goalPulse[i]--
		}
	}
}

func (e *Engine) allGravity() []*object.GravitySource {
	return e.allWells
}

func (e *Engine) emit(kind SoundKind, volume float64) {
	e.sounds = append(e.sounds, SoundEvent{Kind: kind, Volume: volume})
}

// DrainSounds returns the sound cues emitted since the last call and
// clears the queue.
func (e *Engine) DrainSounds() []SoundEvent {
	s := e.sounds
	e.sounds = nil
	return s
}

// Read accessors for the presentation layer.

func (e *Engine) Phase() Phase        { return e.phase }
func (e *Engine) Winner() object.Side { return e.winner }
func (e *Engine) Draft() []Powerup    { return e.draft }

func (e *Engine) DraftSide() object.Side { return e.draftSide }
func (e *Engine) Frame() uint64          { return e.frame }

// Player returns the side's state, nil while the purple side has not
// joined.
func (e *Engine) Player(s object.Side) *Player { return e.players[s] }

func (e *Engine) Square() *object.Square       { return e.square }
func (e *Engine) BlackHole() *object.BlackHole { return e.blackHole }
func (e *Engine) Goals() [2]Goal               { return e.goals }
func (e *Engine) Tuning() Tuning               { return e.tune }
func (e *Engine) ScorePulse() int              { return e.scorePulse }
func (e *Engine) GoalPulse(i int) int          { return e.goalPulse[i] }
func (e *Engine) PoolStats() object.PoolStats  { return e.pool.Stats() }
func (e *Engine) PerfReport() perf.Report      { return e.perf.Snapshot() }
func (e *Engine) BroadPhaseItems() int         { return e.broadPhaseItems }

func (e *Engine) GravitySources() []*object.GravitySource { return e.gravity }

// Projectiles returns the active projectiles. The slice is reused
// between frames; callers must not retain it.
func (e *Engine) Projectiles() []*object.Projectile {
	e.activeBuf = e.pool.Active(e.activeBuf[:0])
	return e.activeBuf
}
