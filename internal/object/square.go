package object

import (
	"math"

	"github.com/tomz197/orbitduel/internal/geom"
	"github.com/tomz197/orbitduel/internal/physics"
)

// Square is the rotating obstacle both players push toward the goal circles.
// It carries linear and angular state; collisions feed impulses and torque
// into it through the engine's collision handlers.
type Square struct {
	Pos geom.Vec2
	Vel geom.Vec2

	Angle      float64 // radians
	AngularVel float64 // radians per frame

	Mass            float64
	Size            float64 // side length
	MomentOfInertia float64

	PulseTimer int
}

// NewSquare creates the obstacle at the given position.
func NewSquare(pos geom.Vec2, mass, size, inertiaFactor float64) *Square {
	return &Square{
		Pos:             pos,
		Mass:            mass,
		Size:            size,
		MomentOfInertia: physics.MomentOfInertia(mass, size, inertiaFactor),
	}
}

// HalfDiagonal returns the distance from the center to a corner. The arena
// boundary and the goal containment check both work off the corner reach so
// rotation can never clip the square through a circle.
func (sq *Square) HalfDiagonal() float64 {
	half := sq.Size / 2
	return math.Sqrt(2) * half
}

// UpdatePhysics advances one frame: linear friction, boundary check against
// the farthest corner, rotation with angular friction, and effect timers.
func (sq *Square) UpdatePhysics(friction, angularFriction, maxAngularVel, bounce, arenaRadius float64) {
	sq.Vel = sq.Vel.Scale(friction)

	next := sq.Pos.Add(sq.Vel)
	outside, corrected, normal := physics.CircularBoundary(next, sq.HalfDiagonal(), arenaRadius)
	if outside {
		sq.Pos = corrected
		sq.Vel = physics.ReflectVelocity(sq.Vel, normal, bounce)
	} else {
		sq.Pos = next
	}

	sq.AngularVel = physics.AngularFriction(sq.AngularVel, angularFriction, maxAngularVel)
	sq.Angle = math.Mod(sq.Angle+sq.AngularVel, 2*math.Pi)

	if sq.PulseTimer > 0 {
		sq.PulseTimer--
	}
}

// Respawn moves the square to pos and zeroes all motion. Called when a goal
// is scored.
func (sq *Square) Respawn(pos geom.Vec2) {
	sq.Pos = pos
	sq.Vel = geom.Vec2{}
	sq.AngularVel = 0
	sq.Angle = 0
}

// TriggerPulse starts the collision flash effect.
func (sq *Square) TriggerPulse(frames int) {
	sq.PulseTimer = frames
}

// IsPulsing reports whether the collision flash is active.
func (sq *Square) IsPulsing() bool {
	return sq.PulseTimer > 0
}

// Corners returns the four rotated corner positions, for rendering.
func (sq *Square) Corners() [4]geom.Vec2 {
	half := sq.Size / 2
	base := [4]geom.Vec2{
		{X: -half, Y: -half},
		{X: half, Y: -half},
		{X: half, Y: half},
		{X: -half, Y: half},
	}
	var out [4]geom.Vec2
	for i, c := range base {
		out[i] = sq.Pos.Add(c.Rotate(sq.Angle))
	}
	return out
}
