package game

import (
	"github.com/tomz197/orbitduel/internal/geom"
	"github.com/tomz197/orbitduel/internal/object"
	"github.com/tomz197/orbitduel/internal/physics"
)

// quadtreeThreshold is the active-projectile count above which the
// pairwise check switches to the spatial index.
const quadtreeThreshold = 8

func (e *Engine) resolveCollisions() {
	e.collideSquareShips()
	e.collideProjectilesSquare()
	e.collideProjectilesShips()
	e.collideProjectilesPairwise()
	e.collideShips()
}

// collideSquareShips bounces ships off the square, spins it from the
// impact point, and applies cooldown-gated hull damage.
func (e *Engine) collideSquareShips() {
	for _, p := range e.players {
		if p == nil {
			continue
		}
		hit, normal, penetration := physics.RectCircleCollision(
			e.square.Pos, e.square.Size, e.square.Size,
			p.Ship.Pos, p.Ship.Radius,
		)
		if !hit {
			continue
		}

		// Push the ship out along the contact normal before the
		// impulse so it cannot tunnel through on the next frame.
		p.Ship.Pos = p.Ship.Pos.Add(normal.Scale(penetration))

		relSpeed := p.Ship.Vel.Sub(e.square.Vel).Length()
		shipVel, squareVel := physics.ResolveCollision(
			p.Ship.Vel, p.Ship.Mass,
			e.square.Vel, e.square.Mass,
			normal, e.tune.Restitution,
		)

		// Impulse on the square spins it about its center.
		impulse := squareVel.Sub(e.square.Vel).Scale(e.square.Mass)
		impact := p.Ship.Pos.Sub(normal.Scale(p.Ship.Radius))
		e.square.AngularVel += physics.CollisionTorque(impact, e.square.Pos, impulse, e.square.MomentOfInertia)
		e.square.AngularVel = physics.AngularFriction(e.square.AngularVel, 1, e.tune.MaxAngularVelocity)

		p.Ship.Vel = shipVel
		e.square.Vel = squareVel
		e.square.TriggerPulse(e.tune.SquarePulseFrames)

		side := p.Ship.Side
		if e.damageCooldown[side] == 0 {
			if e.damagePlayer(p, e.tune.SquareDamage) {
				e.damageCooldown[side] = e.tune.CollisionCooldown
				e.emit(SoundSquareHit, impactVolume(relSpeed, e.tune.MaxSpeed))
			}
		}
	}
}

// collideProjectilesSquare lets projectiles shove and spin the square.
// The projectile is spent on impact.
func (e *Engine) collideProjectilesSquare() {
	for _, pr := range e.Projectiles() {
		hit, normal, _ := physics.RectCircleCollision(
			e.square.Pos, e.square.Size, e.square.Size,
			pr.Pos, pr.Radius,
		)
		if !hit {
			continue
		}

		relSpeed := pr.Vel.Sub(e.square.Vel).Length()
		_, squareVel := physics.ResolveCollision(
			pr.Vel, pr.Mass,
			e.square.Vel, e.square.Mass,
			normal, e.tune.Restitution,
		)
		impulse := squareVel.Sub(e.square.Vel).Scale(e.square.Mass)
		impact := pr.Pos.Sub(normal.Scale(pr.Radius))
		e.square.AngularVel += physics.CollisionTorque(impact, e.square.Pos, impulse, e.square.MomentOfInertia)
		e.square.AngularVel = physics.AngularFriction(e.square.AngularVel, 1, e.tune.MaxAngularVelocity)
		e.square.Vel = squareVel
		e.square.TriggerPulse(e.tune.SquarePulseFrames)

		pr.HasMadeContact = true
		pr.Deactivate()
		e.emit(SoundSquareHit, impactVolume(relSpeed, e.tune.MaxSpeed))
	}
}

// collideProjectilesShips damages ships hit by projectiles. A shot
// cannot hit its own firer until it has made contact with something
// else first.
func (e *Engine) collideProjectilesShips() {
	for _, pr := range e.Projectiles() {
		for _, p := range e.players {
			if p == nil {
				continue
			}
			if pr.Owner == p.Ship.Side && !pr.HasMadeContact {
				continue
			}
			if pr.Pos.Distance(p.Ship.Pos) > pr.Radius+p.Ship.Radius {
				continue
			}

			relSpeed := pr.Vel.Sub(p.Ship.Vel).Length()
			// Normal points from the ship toward the projectile so the
			// impulse throws the ship away from the hit.
			normal := pr.Pos.Sub(p.Ship.Pos).Normalize()
			if normal.IsZero() {
				normal = geom.Vec2{X: 1}
			}
			_, shipVel := physics.ResolveCollision(
				pr.Vel, pr.Mass,
				p.Ship.Vel, p.Ship.Mass,
				normal, e.tune.Restitution,
			)
			p.Ship.Vel = shipVel

			e.damagePlayer(p, pr.Damage)
			e.emit(SoundShipHit, impactVolume(relSpeed, e.tune.MaxSpeed))
			pr.HasMadeContact = true
			pr.Deactivate()
			break
		}
	}
}

// collideProjectilesPairwise bounces projectiles off each other. Small
// counts use direct pairwise checks; larger counts go through the
// quadtree to prune candidates.
func (e *Engine) collideProjectilesPairwise() {
	active := e.Projectiles()
	e.broadPhaseItems = 0
	if len(active) <= 1 {
		return
	}

	if len(active) <= quadtreeThreshold {
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				e.collideProjectilePair(active[i], active[j])
			}
		}
		return
	}

	pad := e.tune.ProjectileRadius * 4
	span := (e.tune.ArenaRadius + pad) * 2
	// Cell size follows the detail tier: cheap tiers use a coarser,
	// shallower index.
	tree := physics.NewQuadTreeCell(geom.Vec2{}, span, span, e.perf.Settings().CollisionCellSize)
	for i, pr := range active {
		tree.Insert(physics.Item{Index: i, Pos: pr.Pos, Radius: pr.Radius})
	}
	e.broadPhaseItems = tree.Len()

	var candidates []physics.Item
	for i, pr := range active {
		candidates = tree.Retrieve(pr.Pos, pr.Radius, candidates[:0])
		for _, c := range candidates {
			if c.Index <= i {
				continue // each pair resolves once
			}
			e.collideProjectilePair(pr, active[c.Index])
		}
	}
}

func (e *Engine) collideProjectilePair(a, b *object.Projectile) {
	if !a.Active || !b.Active {
		return
	}
	// Siblings of an unseparated volley pass through each other.
	if a.JustLaunched && b.JustLaunched && a.Owner == b.Owner {
		return
	}
	if a.Pos.Distance(b.Pos) > a.Radius+b.Radius {
		return
	}

	normal := a.Pos.Sub(b.Pos).Normalize()
	if normal.IsZero() {
		return
	}
	aVel, bVel := physics.ResolveCollision(a.Vel, a.Mass, b.Vel, b.Mass, normal, e.tune.Restitution)
	a.Vel, b.Vel = aVel, bVel
	a.HasMadeContact = true
	b.HasMadeContact = true
}

// collideShips resolves ship-on-ship contact with forced separation,
// an impulse exchange, and mutual cooldown-gated damage.
func (e *Engine) collideShips() {
	red := e.players[object.SideRed]
	purple := e.players[object.SidePurple]
	if purple == nil {
		return
	}
	a, b := red.Ship, purple.Ship

	dist := a.Pos.Distance(b.Pos)
	minDist := a.Radius + b.Radius
	if dist > minDist {
		return
	}

	normal := a.Pos.Sub(b.Pos).Normalize()
	if normal.IsZero() {
		// Perfectly stacked ships get an arbitrary separation axis.
		normal = geom.Vec2{X: 1}
	}

	// Forced positional separation: split the overlap evenly so the
	// impulse acts on non-penetrating bodies.
	overlap := minDist - dist
	a.Pos = a.Pos.Add(normal.Scale(overlap / 2))
	b.Pos = b.Pos.Sub(normal.Scale(overlap / 2))

	relSpeed := a.Vel.Sub(b.Vel).Length()
	aVel, bVel := physics.ResolveCollision(a.Vel, a.Mass, b.Vel, b.Mass, normal, e.tune.Restitution)
	a.Vel, b.Vel = aVel, bVel

	if e.shipShipCooldown == 0 {
		e.damagePlayer(red, e.tune.ShipRamDamage)
		e.damagePlayer(purple, e.tune.ShipRamDamage)
		e.shipShipCooldown = e.tune.CollisionCooldown
		e.emit(SoundShipHit, impactVolume(relSpeed, e.tune.MaxSpeed))
	}
}
