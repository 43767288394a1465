package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/orbitduel/internal/geom"
)

// GravitySource is a stationary force well: the goal-circle dots and the
// invisible central well. Pull falls off with an inverse power of distance
// and cuts off entirely beyond MaxDistance.
type GravitySource struct {
	Pos         geom.Vec2
	Radius      float64 // visual/minimum-distance radius
	Strength    float64
	MaxDistance float64
	Falloff     float64 // falloff power; higher focuses the well
}

// Pull returns the per-frame velocity delta this source applies to a body at
// pos. Inside the source radius the pull is skipped: the near-singular
// division would slingshot bodies through the well.
func (g *GravitySource) Pull(pos geom.Vec2) geom.Vec2 {
	toSource := g.Pos.Sub(pos)
	dist := toSource.Length()
	if dist <= g.Radius || dist > g.MaxDistance {
		return geom.Vec2{}
	}
	accel := g.Strength / math.Pow(dist, g.Falloff)
	return toSource.Scale(accel / dist)
}

// BlackHole is a slow-roaming gravity source. It drifts randomly inside a
// roam radius around the arena center and is bounced back softly when it
// wanders out.
type BlackHole struct {
	GravitySource
	Vel        geom.Vec2
	RoamRadius float64
	drift      float64 // acceleration magnitude of the random walk
	maxSpeed   float64
}

// NewBlackHole creates a black hole roaming around the arena center.
func NewBlackHole(src GravitySource, roamRadius, drift, maxSpeed float64) *BlackHole {
	return &BlackHole{
		GravitySource: src,
		RoamRadius:    roamRadius,
		drift:         drift,
		maxSpeed:      maxSpeed,
	}
}

// Update advances the roam one frame using the provided RNG so runs with a
// seeded engine stay reproducible.
func (b *BlackHole) Update(rng *rand.Rand) {
	kick := geom.FromAngle(rng.Float64() * 2 * math.Pi).Scale(b.drift)
	b.Vel = b.Vel.Add(kick).ClampLength(b.maxSpeed)

	next := b.Pos.Add(b.Vel)
	if next.Length() > b.RoamRadius {
		// Turn back toward the center instead of bouncing hard.
		inward := next.Normalize().Scale(-1)
		b.Vel = inward.Scale(b.Vel.Length())
		next = b.Pos.Add(b.Vel)
	}
	b.Pos = next
}
