// Package physics provides the stateless physics kernel: momentum
// integration, boundary reflection, impulse-based collision response,
// rectangle-circle collision classification and rotational dynamics.
// All functions are pure; callers own every piece of mutable state.
package physics

import (
	"math"

	"github.com/tomz197/orbitduel/internal/geom"
)

// ApplyMomentum applies acceleration, multiplicative friction, and the
// max-speed clamp to a velocity. Friction runs after acceleration, so speed
// converges to the equilibrium accel*friction/(1-friction) unless that
// exceeds maxSpeed, in which case the clamp governs.
func ApplyMomentum(vel, accel geom.Vec2, dt, friction, maxSpeed float64) geom.Vec2 {
	v := vel.Add(accel.Scale(dt)).Scale(friction)
	return v.ClampLength(maxSpeed)
}

// CircularBoundary checks a circular object of the given radius against a
// circular boundary centered at the origin. If the object pokes outside, it
// returns true together with the position projected radially back onto the
// safe radius and the inward unit normal. The projection is the minimum
// displacement that satisfies the boundary, so re-checking the corrected
// position always reports inside.
func CircularBoundary(pos geom.Vec2, radius, boundaryRadius float64) (bool, geom.Vec2, geom.Vec2) {
	maxDist := boundaryRadius - radius
	dist := pos.Length()
	if dist <= maxDist {
		return false, pos, geom.Vec2{}
	}

	dir := geom.FromAngle(pos.Angle())
	corrected := dir.Scale(maxDist)
	normal := dir.Scale(-1)
	return true, corrected, normal
}

// ReflectVelocity reflects a velocity off a surface with the given inward
// normal, scaled by the bounce factor: v' = v - 2(v·n)n*bounce.
func ReflectVelocity(vel, normal geom.Vec2, bounce float64) geom.Vec2 {
	d := vel.Dot(normal)
	return vel.Sub(normal.Scale(2 * d * bounce))
}

// EllipticalBoundary checks a circular object against an elliptical boundary
// centered at the origin with semi-axes rx and ry. The boundary is shrunk by
// the object radius on both axes (an approximation that holds for objects
// small relative to the ellipse). When outside, the corrected position is the
// closest point on the shrunk ellipse, found by damped Newton iteration, and
// the normal is the inward ellipse gradient at that point. Correcting to the
// nearest point rather than projecting by angle avoids the teleport artifact
// near the flat parts of the ellipse.
func EllipticalBoundary(pos geom.Vec2, radius, rx, ry float64) (bool, geom.Vec2, geom.Vec2) {
	a := rx - radius
	b := ry - radius
	if a <= 0 || b <= 0 {
		// Object is too big for the boundary.
		return true, geom.Vec2{}, geom.Vec2{}
	}

	val := (pos.X/a)*(pos.X/a) + (pos.Y/b)*(pos.Y/b)
	if val <= 1.0 {
		return false, pos, geom.Vec2{}
	}

	closest := closestEllipsePoint(pos, a, b)

	// Inward normal from the ellipse gradient (2x/a², 2y/b²).
	grad := geom.Vec2{X: 2 * closest.X / (a * a), Y: 2 * closest.Y / (b * b)}
	normal := grad.Normalize().Scale(-1)
	return true, closest, normal
}

// closestEllipsePoint finds the point on the ellipse x²/a²+y²/b²=1 nearest
// to p using damped Newton steps on the parametric distance function.
func closestEllipsePoint(p geom.Vec2, a, b float64) geom.Vec2 {
	if math.Abs(p.X) < 1e-10 && math.Abs(p.Y) < 1e-10 {
		return geom.Vec2{X: a}
	}
	if math.Abs(p.Y) < 1e-10 {
		if p.X > 0 {
			return geom.Vec2{X: a}
		}
		return geom.Vec2{X: -a}
	}
	if math.Abs(p.X) < 1e-10 {
		if p.Y > 0 {
			return geom.Vec2{Y: b}
		}
		return geom.Vec2{Y: -b}
	}

	t := math.Atan2(p.Y/b, p.X/a)
	bestDistSq := math.Inf(1)
	var best geom.Vec2

	for iter := 0; iter < 10; iter++ {
		e := geom.Vec2{X: a * math.Cos(t), Y: b * math.Sin(t)}

		distSq := e.Sub(p).LengthSquared()
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = e
		}

		// First and second derivatives of squared distance w.r.t. t.
		dxdt := -a * math.Sin(t)
		dydt := b * math.Cos(t)
		deriv := 2*(e.X-p.X)*dxdt + 2*(e.Y-p.Y)*dydt

		d2xdt2 := -a * math.Cos(t)
		d2ydt2 := -b * math.Sin(t)
		deriv2 := 2*dxdt*dxdt + 2*(e.X-p.X)*d2xdt2 +
			2*dydt*dydt + 2*(e.Y-p.Y)*d2ydt2

		if math.Abs(deriv2) > 1e-10 {
			t += -deriv / deriv2 * 0.5 // damped step
		}
		if math.Abs(deriv) < 1e-6 {
			break
		}
	}

	return best
}

// ResolveCollision applies the standard impulse exchange along the collision
// normal for two bodies. If the bodies are already separating (relative
// velocity along the normal is positive) it returns the inputs unchanged;
// that guard prevents double-resolving a single contact.
func ResolveCollision(v1 geom.Vec2, m1 float64, v2 geom.Vec2, m2 float64, normal geom.Vec2, restitution float64) (geom.Vec2, geom.Vec2) {
	rel := v1.Sub(v2)
	relNormal := rel.Dot(normal)

	if relNormal > 0 {
		return v1, v2
	}

	impulse := -(1 + restitution) * relNormal
	impulse /= 1/m1 + 1/m2

	j := normal.Scale(impulse)
	return v1.Add(j.Scale(1 / m1)), v2.Sub(j.Scale(1 / m2))
}

// RectCircleCollision checks an axis-aligned rectangle (by center and size)
// against a circle. The rectangle is expanded by the circle radius; if the
// circle center falls inside the expanded zone the nearest expanded edge
// classifies the hit, producing one of four cardinal normals. Even near a
// corner the normal stays axis-aligned; downstream torque handling depends
// on that.
func RectCircleCollision(rectCenter geom.Vec2, rectW, rectH float64, circleCenter geom.Vec2, circleRadius float64) (bool, geom.Vec2, float64) {
	halfW := rectW / 2
	halfH := rectH / 2

	left := rectCenter.X - halfW - circleRadius
	right := rectCenter.X + halfW + circleRadius
	top := rectCenter.Y - halfH - circleRadius
	bottom := rectCenter.Y + halfH + circleRadius

	if circleCenter.X <= left || circleCenter.X >= right ||
		circleCenter.Y <= top || circleCenter.Y >= bottom {
		return false, geom.Vec2{}, 0
	}

	distLeft := math.Abs(circleCenter.X - left)
	distRight := math.Abs(circleCenter.X - right)
	distTop := math.Abs(circleCenter.Y - top)
	distBottom := math.Abs(circleCenter.Y - bottom)

	min := math.Min(math.Min(distLeft, distRight), math.Min(distTop, distBottom))
	switch min {
	case distLeft:
		return true, geom.Vec2{X: -1}, min
	case distRight:
		return true, geom.Vec2{X: 1}, min
	case distTop:
		return true, geom.Vec2{Y: -1}, min
	default:
		return true, geom.Vec2{Y: 1}, min
	}
}

// CollisionTorque converts a linear impulse applied at an impact point into
// an angular velocity change: Δω = (r × J) / I.
func CollisionTorque(impact, center, impulse geom.Vec2, momentOfInertia float64) float64 {
	r := impact.Sub(center)
	return r.Cross(impulse) / momentOfInertia
}

// AngularFriction applies multiplicative decay to an angular velocity and
// clamps its magnitude to max.
func AngularFriction(angularVel, friction, max float64) float64 {
	w := angularVel * friction
	if w > max {
		return max
	}
	if w < -max {
		return -max
	}
	return w
}

// MomentOfInertia returns the moment of inertia for a square obstacle of the
// given mass and side length: I = factor * m * s².
func MomentOfInertia(mass, size, factor float64) float64 {
	return factor * mass * size * size
}
