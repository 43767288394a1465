package game

import (
	"math"

	"github.com/tomz197/orbitduel/internal/config"
)

// Tuning collects every simulation constant in one place so tests and
// entrypoints can tweak them without touching package state.
type Tuning struct {
	// Arena.
	ArenaRadius float64
	GoalRadius  float64
	GoalOffset  float64 // goal centers sit at +/- GoalOffset on the x axis

	// Ships.
	ShipRadius        float64
	ShipMass          float64
	Acceleration      float64
	Friction          float64 // velocity multiplier per frame
	MaxSpeed          float64
	BounceFactor      float64
	InitialHitPoints  int
	BoundaryDamage    int
	SquareDamage      int // hull lost ramming the square
	ShipRamDamage     int // hull lost per ship on a ship-ship hit
	PulseFrames       int
	MomentumMinSize   float64
	MomentumMaxSize   float64
	CollisionCooldown int // frames between repeated damage for a pair

	// Square.
	SquareSize            float64
	SquareMass            float64
	SquareFriction        float64
	AngularFriction       float64
	MaxAngularVelocity    float64
	MomentOfInertiaFactor float64
	Restitution           float64
	SquarePulseFrames     int

	// Projectiles.
	ProjectileRadius   float64
	ProjectileMass     float64
	ProjectileDamage   int
	ProjectileMinSpeed float64
	PoolInitialSize    int
	PoolMaxSize        int

	// Gravity.
	GravityStrength    float64
	GravityFalloff     float64
	GravityMaxDistance float64
	GravityDotRadius   float64
	BlackHoleStrength  float64
	BlackHoleRadius    float64
	BlackHoleRoam      float64
	BlackHoleDrift     float64
	BlackHoleMaxSpeed  float64

	// Firing rate limit.
	RateLimitShots    int
	RateLimitWindow   float64 // seconds
	RateLimitCooldown float64 // seconds

	// Scoring.
	ScoreOverlapFrames int
	SquareGoalPoints   int
	WinScore           int

	// Multi-shot powerup.
	MultiShotSpreadDeg   float64
	MultiShotSpeedFactor float64
}

// DefaultTuning returns the stock game balance.
func DefaultTuning() Tuning {
	squareSize := 50.0
	goalRadius := math.Sqrt2 * squareSize * 2.66 / 2

	return Tuning{
		ArenaRadius: 1000,
		GoalRadius:  goalRadius,
		GoalOffset:  800,

		ShipRadius:        5,
		ShipMass:          5,
		Acceleration:      0.1,
		Friction:          0.99,
		MaxSpeed:          60,
		BounceFactor:      0.6,
		InitialHitPoints:  10,
		BoundaryDamage:    1,
		SquareDamage:      1,
		ShipRamDamage:     1,
		PulseFrames:       10,
		MomentumMinSize:   4,
		MomentumMaxSize:   14,
		CollisionCooldown: 30,

		SquareSize:            squareSize,
		SquareMass:            5,
		SquareFriction:        0.995,
		AngularFriction:       0.98,
		SquarePulseFrames:     20,
		MaxAngularVelocity:    5.0,
		MomentOfInertiaFactor: 0.5,
		Restitution:           0.8,

		ProjectileRadius:   2,
		ProjectileMass:     5,
		ProjectileDamage:   1,
		ProjectileMinSpeed: 5,
		PoolInitialSize:    20,
		PoolMaxSize:        75,

		GravityStrength:    25,
		GravityFalloff:     1.5,
		GravityMaxDistance: goalRadius * 8,
		GravityDotRadius:   7.5,
		BlackHoleStrength:  50,
		BlackHoleRadius:    12,
		BlackHoleRoam:      400,
		BlackHoleDrift:     0.05,
		BlackHoleMaxSpeed:  1.5,

		RateLimitShots:    5,
		RateLimitWindow:   3,
		RateLimitCooldown: 3,

		ScoreOverlapFrames: 30,
		SquareGoalPoints:   2,
		WinScore:           10,

		MultiShotSpreadDeg:   2,
		MultiShotSpeedFactor: 0.9,
	}
}

// TuningFromEnv starts from the defaults and applies ORBITDUEL_*
// environment overrides for the values worth tweaking at deploy time.
func TuningFromEnv() Tuning {
	t := DefaultTuning()
	t.ArenaRadius = config.GetEnvFloat("ORBITDUEL_ARENA_RADIUS", t.ArenaRadius)
	t.MaxSpeed = config.GetEnvFloat("ORBITDUEL_MAX_SPEED", t.MaxSpeed)
	t.InitialHitPoints = config.GetEnvInt("ORBITDUEL_HIT_POINTS", t.InitialHitPoints)
	t.WinScore = config.GetEnvInt("ORBITDUEL_WIN_SCORE", t.WinScore)
	t.RateLimitShots = config.GetEnvInt("ORBITDUEL_RATE_SHOTS", t.RateLimitShots)
	t.RateLimitWindow = config.GetEnvFloat("ORBITDUEL_RATE_WINDOW", t.RateLimitWindow)
	t.RateLimitCooldown = config.GetEnvFloat("ORBITDUEL_RATE_COOLDOWN", t.RateLimitCooldown)
	t.PoolMaxSize = config.GetEnvInt("ORBITDUEL_POOL_MAX", t.PoolMaxSize)
	return t
}
