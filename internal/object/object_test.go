package object

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/orbitduel/internal/geom"
)

const (
	testArenaRadius = 1000.0
	testFriction    = 0.99
	testMaxSpeed    = 60.0
	testBounce      = 0.6
)

func TestShipStaysInsideArena(t *testing.T) {
	s := NewShip(SideRed, geom.Vec2{X: 990}, 5, 5)
	s.Accel = geom.Vec2{X: 0.5} // keep pushing into the wall

	for i := 0; i < 600; i++ {
		s.UpdatePhysics(testFriction, testMaxSpeed, testBounce, testArenaRadius)
		if s.Pos.Length() > testArenaRadius-s.Radius+1e-9 {
			t.Fatalf("frame %d: ship at %f escaped the arena", i, s.Pos.Length())
		}
	}
}

func TestShipBoundaryHitReported(t *testing.T) {
	s := NewShip(SideRed, geom.Vec2{X: 990}, 5, 5)
	s.Vel = geom.Vec2{X: 30}

	if !s.UpdatePhysics(testFriction, testMaxSpeed, testBounce, testArenaRadius) {
		t.Fatal("outbound ship did not report a boundary hit")
	}
	// Bounce reversed the radial velocity component.
	if s.Vel.X >= 0 {
		t.Errorf("velocity after bounce = %v, want inward", s.Vel)
	}
}

func TestShipAimRequiresMomentum(t *testing.T) {
	s := NewShip(SidePurple, geom.Vec2{}, 5, 5)

	if _, ok := s.AimDirection(0.1); ok {
		t.Error("stationary ship reported an aim direction")
	}

	s.Vel = geom.Vec2{X: 3, Y: 4}
	dir, ok := s.AimDirection(0.1)
	if !ok {
		t.Fatal("moving ship refused to aim")
	}
	if math.Abs(dir.Length()-1) > 1e-12 {
		t.Errorf("aim direction not unit length: %f", dir.Length())
	}
}

func TestSquareRespawnZeroesMotion(t *testing.T) {
	sq := NewSquare(geom.Vec2{X: 100, Y: 50}, 5, 50, 0.5)
	sq.Vel = geom.Vec2{X: 7, Y: -3}
	sq.AngularVel = 2
	sq.Angle = 1

	sq.Respawn(geom.Vec2{})

	if !sq.Pos.IsZero() || !sq.Vel.IsZero() || sq.AngularVel != 0 || sq.Angle != 0 {
		t.Errorf("respawn left motion state: %+v", sq)
	}
}

func TestSquareBoundaryUsesCornerReach(t *testing.T) {
	sq := NewSquare(geom.Vec2{X: testArenaRadius - 30}, 5, 50, 0.5)
	sq.Vel = geom.Vec2{X: 20}

	for i := 0; i < 100; i++ {
		sq.UpdatePhysics(0.995, 0.98, 5.0, testBounce, testArenaRadius)
	}
	if sq.Pos.Length() > testArenaRadius-sq.HalfDiagonal()+1e-9 {
		t.Errorf("square center at %f lets a corner poke out", sq.Pos.Length())
	}
}

func TestProjectileBounceCap(t *testing.T) {
	p := &Projectile{
		Pos:        geom.Vec2{X: testArenaRadius - 10},
		Vel:        geom.Vec2{X: 50},
		Radius:     2,
		Active:     true,
		MaxBounces: MaxProjectileBounces,
	}

	// Full bounce keeps it slamming into the wall until the cap.
	for i := 0; i < 10000 && p.Active; i++ {
		p.UpdatePhysics(1.0, testArenaRadius)
	}
	if p.Active {
		t.Fatal("projectile still active after bounce cap")
	}
	if p.BounceCount != MaxProjectileBounces {
		t.Errorf("bounce count = %d, want %d", p.BounceCount, MaxProjectileBounces)
	}
	if !p.HasMadeContact {
		t.Error("boundary bounce must count as contact")
	}
}

func TestGravityPullFalloffAndCutoff(t *testing.T) {
	g := &GravitySource{
		Pos:         geom.Vec2{},
		Radius:      7.5,
		Strength:    25,
		MaxDistance: 400,
		Falloff:     1.5,
	}

	near := g.Pull(geom.Vec2{X: 50}).Length()
	far := g.Pull(geom.Vec2{X: 200}).Length()
	if near <= far {
		t.Errorf("pull must weaken with distance: near %f, far %f", near, far)
	}

	if !g.Pull(geom.Vec2{X: 500}).IsZero() {
		t.Error("pull beyond MaxDistance must be zero")
	}
	if !g.Pull(geom.Vec2{X: 5}).IsZero() {
		t.Error("pull inside the source radius must be skipped")
	}

	// Pull points toward the source.
	d := g.Pull(geom.Vec2{X: 100, Y: 100})
	if d.X >= 0 || d.Y >= 0 {
		t.Errorf("pull %v does not point at the origin", d)
	}
}

func TestBlackHoleStaysInRoamRadius(t *testing.T) {
	b := NewBlackHole(GravitySource{Strength: 50, MaxDistance: 500, Radius: 12}, 300, 0.05, 1.5)
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 5000; i++ {
		b.Update(rng)
	}
	// One step of overshoot is tolerated before the turn-back.
	if b.Pos.Length() > 300+b.maxSpeed {
		t.Errorf("black hole wandered to %f, roam radius 300", b.Pos.Length())
	}
}
