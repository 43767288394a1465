package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestModifiersIdentity(t *testing.T) {
	m := NewModifiers()
	if m.FireRateFactor != 1 || m.ProjSpeedFactor != 1 || m.ProjRadiusFactor != 1 ||
		m.MaxSpeedFactor != 1 || m.AccelFactor != 1 || m.ShipMassFactor != 1 ||
		m.MaxHPFactor != 1 || m.GoalGravityFactor != 1 || m.RadiusFactor != 1 ||
		m.ProjMassFactor != 1 {
		t.Errorf("identity modifiers = %+v", m)
	}
	if m.DamageBonus != 0 || m.ExtraProjectiles != 0 || m.RegenInterval != 0 {
		t.Errorf("identity modifiers carry bonuses: %+v", m)
	}
}

func TestModifiersMultiplicativeStacking(t *testing.T) {
	m := NewModifiers()
	m.Apply(PowerupShipSpeed)
	m.Apply(PowerupShipSpeed)
	if math.Abs(m.MaxSpeedFactor-2.25) > 1e-12 {
		t.Errorf("two speed drafts = %f, want 2.25", m.MaxSpeedFactor)
	}

	m.Apply(PowerupMaxHitPoints)
	m.Apply(PowerupMaxHitPoints)
	if math.Abs(m.MaxHPFactor-2.25) > 1e-12 {
		t.Errorf("two hull drafts = %f, want 2.25", m.MaxHPFactor)
	}

	m.Apply(PowerupShipMass)
	m.Apply(PowerupGoalGravity)
	m.Apply(PowerupProjectileSize)
	if m.ShipMassFactor != 1.5 || m.GoalGravityFactor != 1.5 || m.ProjRadiusFactor != 1.5 {
		t.Errorf("single drafts = %+v, want 1.5 each", m)
	}

	m.Apply(PowerupShrink)
	m.Apply(PowerupShrink)
	if math.Abs(m.RadiusFactor-0.5625) > 1e-12 {
		t.Errorf("two shrink drafts = %f, want 0.5625", m.RadiusFactor)
	}
}

func TestModifiersAdditiveStacking(t *testing.T) {
	m := NewModifiers()
	m.Apply(PowerupDamage)
	m.Apply(PowerupDamage)
	m.Apply(PowerupMultiShot)
	m.Apply(PowerupBounceShot)

	if m.DamageBonus != 2 {
		t.Errorf("damage bonus = %d, want 2", m.DamageBonus)
	}
	if m.ExtraProjectiles != 1 {
		t.Errorf("extra projectiles = %d, want 1", m.ExtraProjectiles)
	}
	if m.ExtraBounces != 3 {
		t.Errorf("extra bounces = %d, want 3", m.ExtraBounces)
	}
}

func TestModifiersRegenTightens(t *testing.T) {
	m := NewModifiers()
	m.Apply(PowerupRegeneration)
	if m.RegenInterval != 300 {
		t.Fatalf("first regen interval = %d, want 300", m.RegenInterval)
	}
	m.Apply(PowerupRegeneration)
	if m.RegenInterval != 240 {
		t.Errorf("second regen interval = %d, want 240", m.RegenInterval)
	}
	for i := 0; i < 20; i++ {
		m.Apply(PowerupRegeneration)
	}
	if m.RegenInterval < 60 {
		t.Errorf("regen interval fell below floor: %d", m.RegenInterval)
	}
}

func TestDraftOptionsDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		opts := DraftOptions(rng, 3)
		if len(opts) != 3 {
			t.Fatalf("draft size = %d, want 3", len(opts))
		}
		seen := map[Powerup]bool{}
		for _, p := range opts {
			if seen[p] {
				t.Fatalf("duplicate powerup %v in draft %v", p, opts)
			}
			seen[p] = true
			if p < 0 || p >= powerupCount {
				t.Fatalf("out-of-range powerup %d", p)
			}
		}
	}
}

func TestPowerupNamesComplete(t *testing.T) {
	for p := Powerup(0); p < powerupCount; p++ {
		if p.String() == "unknown" || p.Description() == "" {
			t.Errorf("powerup %d missing name or description", p)
		}
	}
}
