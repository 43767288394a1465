// Package object contains the simulated entities: player ships, the square
// obstacle, projectiles, gravity sources and the projectile pool. Entities
// own their own motion state; the game engine owns everything else (hit
// points, scores, cooldowns) and is the only mutator.
package object

import (
	"github.com/tomz197/orbitduel/internal/geom"
	"github.com/tomz197/orbitduel/internal/physics"
)

// Side identifies which player an entity belongs to.
type Side int

const (
	SideRed Side = iota
	SidePurple
)

func (s Side) String() string {
	if s == SidePurple {
		return "purple"
	}
	return "red"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideRed {
		return SidePurple
	}
	return SideRed
}

// Ship is a player-controlled ship with momentum physics. Both players use
// the same type; Side selects spawn position and presentation.
type Ship struct {
	Side  Side
	Pos   geom.Vec2
	Vel   geom.Vec2
	Accel geom.Vec2 // set from input each frame by the engine

	Mass   float64
	Radius float64

	PulseTimer int // damage-flash countdown, frames
}

// NewShip creates a ship for the given side at the given spawn position.
func NewShip(side Side, spawn geom.Vec2, mass, radius float64) *Ship {
	return &Ship{
		Side:   side,
		Pos:    spawn,
		Mass:   mass,
		Radius: radius,
	}
}

// UpdatePhysics integrates one frame of motion: acceleration, friction, the
// max-speed clamp, then the circular arena boundary with a lossy bounce.
// Returns true if the ship hit the boundary this frame.
func (s *Ship) UpdatePhysics(friction, maxSpeed, bounce, arenaRadius float64) bool {
	s.Vel = physics.ApplyMomentum(s.Vel, s.Accel, 1.0, friction, maxSpeed)

	next := s.Pos.Add(s.Vel)
	outside, corrected, normal := physics.CircularBoundary(next, s.Radius, arenaRadius)
	if outside {
		s.Pos = corrected
		s.Vel = physics.ReflectVelocity(s.Vel, normal, bounce)
	} else {
		s.Pos = next
	}

	if s.PulseTimer > 0 {
		s.PulseTimer--
	}
	return outside
}

// Speed returns the current speed.
func (s *Ship) Speed() float64 {
	return s.Vel.Length()
}

// AimDirection returns the unit vector the ship is aiming along (its
// momentum direction). Shooting requires momentum: below minSpeed the
// direction is undefined and ok is false.
func (s *Ship) AimDirection(minSpeed float64) (geom.Vec2, bool) {
	speed := s.Speed()
	if speed < minSpeed {
		return geom.Vec2{}, false
	}
	return s.Vel.Scale(1 / speed), true
}

// TriggerPulse starts the damage-flash effect.
func (s *Ship) TriggerPulse(frames int) {
	s.PulseTimer = frames
}

// MomentumInfo describes the momentum indicator drawn ahead of the ship.
type MomentumInfo struct {
	Angle float64
	Size  float64
	Speed float64
}

// Momentum returns indicator data for the renderer, or ok=false when the
// ship is too slow to have a meaningful direction.
func (s *Ship) Momentum(minSpeed, maxSpeed, minSize, maxSize float64) (MomentumInfo, bool) {
	speed := s.Speed()
	if speed < minSpeed {
		return MomentumInfo{}, false
	}
	size := minSize + speed/maxSpeed*(maxSize-minSize)
	if size > maxSize {
		size = maxSize
	}
	return MomentumInfo{Angle: s.Vel.Angle(), Size: size, Speed: speed}, true
}
