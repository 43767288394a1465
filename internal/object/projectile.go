package object

import (
	"github.com/tomz197/orbitduel/internal/geom"
	"github.com/tomz197/orbitduel/internal/physics"
)

// MaxProjectileBounces is how many boundary bounces a projectile survives
// before it is deactivated.
const MaxProjectileBounces = 6

// Projectile is a shot fired by a ship. Projectiles are owned by the
// ProjectilePool: "destroyed" means deactivated and recycled, never freed.
type Projectile struct {
	Pos geom.Vec2
	Vel geom.Vec2

	Mass   float64
	Radius float64
	Damage int

	Owner Side

	Active bool
	// HasMadeContact is set on the first collision with anything. Until
	// then the projectile cannot hit its own firer, who it starts
	// overlapping by construction.
	HasMadeContact bool
	// JustLaunched suppresses collisions with same-volley siblings until
	// the fan has geometrically separated.
	JustLaunched bool
	BounceCount  int
	// MaxBounces is how many boundary bounces this projectile survives,
	// MaxProjectileBounces by default plus any bonus the firer carries.
	MaxBounces int
}

// UpdatePhysics advances the projectile and bounces it off the arena
// boundary. Each bounce loses energy and counts toward the bounce cap;
// a bounce also counts as contact for owner-immunity purposes.
func (p *Projectile) UpdatePhysics(bounce, arenaRadius float64) {
	if !p.Active {
		return
	}

	next := p.Pos.Add(p.Vel)
	outside, corrected, normal := physics.CircularBoundary(next, p.Radius, arenaRadius)
	if outside {
		p.Pos = corrected
		p.Vel = physics.ReflectVelocity(p.Vel, normal, bounce)
		p.HasMadeContact = true
		p.BounceCount++
		if p.BounceCount >= p.MaxBounces {
			p.Active = false
		}
		return
	}
	p.Pos = next
}

// Deactivate marks the projectile for recycling by the pool.
func (p *Projectile) Deactivate() {
	p.Active = false
}
