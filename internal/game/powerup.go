package game

import "math/rand"

// Powerup identifies one draftable upgrade.
type Powerup int

const (
	PowerupDamage Powerup = iota
	PowerupFireRate
	PowerupProjectileSpeed
	PowerupProjectileSize
	PowerupMultiShot
	PowerupShipSpeed
	PowerupShipAccel
	PowerupShipMass
	PowerupMaxHitPoints
	PowerupGoalGravity
	PowerupRegeneration
	PowerupShrink
	PowerupBounceShot
	PowerupHeavyShot
	powerupCount
)

func (p Powerup) String() string {
	switch p {
	case PowerupDamage:
		return "Sharpened Rounds"
	case PowerupFireRate:
		return "Rapid Fire"
	case PowerupProjectileSpeed:
		return "Hot Barrel"
	case PowerupProjectileSize:
		return "Flak Shells"
	case PowerupMultiShot:
		return "Split Shot"
	case PowerupShipSpeed:
		return "Overdrive"
	case PowerupShipAccel:
		return "Afterburner"
	case PowerupShipMass:
		return "Ballast"
	case PowerupMaxHitPoints:
		return "Hull Plating"
	case PowerupGoalGravity:
		return "Event Horizon"
	case PowerupRegeneration:
		return "Nanorepair"
	case PowerupShrink:
		return "Compact Hull"
	case PowerupBounceShot:
		return "Ricochet"
	case PowerupHeavyShot:
		return "Dense Slugs"
	default:
		return "unknown"
	}
}

// Description is the one-line draft screen blurb.
func (p Powerup) Description() string {
	switch p {
	case PowerupDamage:
		return "projectiles deal +1 damage"
	case PowerupFireRate:
		return "fire 50% more shots per window"
	case PowerupProjectileSpeed:
		return "projectiles fly 50% faster"
	case PowerupProjectileSize:
		return "projectiles are 50% bigger"
	case PowerupMultiShot:
		return "fire one extra projectile per volley"
	case PowerupShipSpeed:
		return "top speed raised 50%"
	case PowerupShipAccel:
		return "thrust raised 50%"
	case PowerupShipMass:
		return "ship rams 50% heavier"
	case PowerupMaxHitPoints:
		return "maximum hull raised 50%"
	case PowerupGoalGravity:
		return "your goal pulls 50% harder"
	case PowerupRegeneration:
		return "regain 1 hull every 5 seconds"
	case PowerupShrink:
		return "ship is 25% smaller"
	case PowerupBounceShot:
		return "projectiles survive 3 extra bounces"
	case PowerupHeavyShot:
		return "projectiles hit 50% heavier"
	default:
		return ""
	}
}

// Modifiers accumulates the effect of every powerup a player has
// drafted. Values are multipliers against the base tuning except where
// noted. Multiplicative powerups stack by repeated application.
type Modifiers struct {
	DamageBonus       int // added to projectile damage
	FireRateFactor    float64
	ProjSpeedFactor   float64
	ProjRadiusFactor  float64
	ExtraProjectiles  int
	MaxSpeedFactor    float64
	AccelFactor       float64
	ShipMassFactor    float64
	MaxHPFactor       float64
	GoalGravityFactor float64
	RegenInterval     int // frames between regen ticks, 0 disables
	RadiusFactor      float64
	ExtraBounces      int
	ProjMassFactor    float64
}

// NewModifiers returns the identity modifier set.
func NewModifiers() Modifiers {
	return Modifiers{
		FireRateFactor:    1,
		ProjSpeedFactor:   1,
		ProjRadiusFactor:  1,
		MaxSpeedFactor:    1,
		AccelFactor:       1,
		ShipMassFactor:    1,
		MaxHPFactor:       1,
		GoalGravityFactor: 1,
		RadiusFactor:      1,
		ProjMassFactor:    1,
	}
}

// Apply folds one drafted powerup into the set.
func (m *Modifiers) Apply(p Powerup) {
	switch p {
	case PowerupDamage:
		m.DamageBonus++
	case PowerupFireRate:
		m.FireRateFactor *= 1.5
	case PowerupProjectileSpeed:
		m.ProjSpeedFactor *= 1.5
	case PowerupProjectileSize:
		m.ProjRadiusFactor *= 1.5
	case PowerupMultiShot:
		m.ExtraProjectiles++
	case PowerupShipSpeed:
		m.MaxSpeedFactor *= 1.5
	case PowerupShipAccel:
		m.AccelFactor *= 1.5
	case PowerupShipMass:
		m.ShipMassFactor *= 1.5
	case PowerupMaxHitPoints:
		m.MaxHPFactor *= 1.5
	case PowerupGoalGravity:
		m.GoalGravityFactor *= 1.5
	case PowerupRegeneration:
		if m.RegenInterval == 0 {
			m.RegenInterval = 300
		} else if m.RegenInterval > 60 {
			m.RegenInterval -= 60
		}
	case PowerupShrink:
		m.RadiusFactor *= 0.75
	case PowerupBounceShot:
		m.ExtraBounces += 3
	case PowerupHeavyShot:
		m.ProjMassFactor *= 1.5
	}
}

// DraftOptions samples n distinct powerups for the draft screen.
func DraftOptions(rng *rand.Rand, n int) []Powerup {
	if n > int(powerupCount) {
		n = int(powerupCount)
	}
	perm := rng.Perm(int(powerupCount))
	opts := make([]Powerup, n)
	for i := 0; i < n; i++ {
		opts[i] = Powerup(perm[i])
	}
	return opts
}
