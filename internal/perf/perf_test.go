package perf

import (
	"testing"
	"time"
)

// feed simulates n frames at a fixed per-frame duration.
func feed(m *Manager, n int, frame time.Duration) {
	now := time.Unix(0, 0)
	for i := 0; i < n; i++ {
		m.RecordFrame(now)
		now = now.Add(frame)
	}
}

func TestManagerDropsLevelUnderLoad(t *testing.T) {
	m := NewManager(LevelUltra, nil)
	feed(m, 200, 50*time.Millisecond) // 20 FPS, well under target

	if m.Level() >= LevelUltra {
		t.Errorf("level = %v after sustained 20 FPS, want a drop", m.Level())
	}
	if !m.ConsumeDirty() {
		t.Error("level change did not set the dirty flag")
	}
	if m.ConsumeDirty() {
		t.Error("dirty flag did not clear after consumption")
	}
}

func TestManagerRaisesLevelWithHeadroom(t *testing.T) {
	m := NewManager(LevelPotato, nil)
	feed(m, 200, 10*time.Millisecond) // 100 FPS

	if m.Level() <= LevelPotato {
		t.Errorf("level = %v after sustained 100 FPS, want a raise", m.Level())
	}
}

func TestManagerHoldsNearTarget(t *testing.T) {
	m := NewManager(LevelMedium, nil)
	feed(m, 500, 22*time.Millisecond) // ~45 FPS, inside the hysteresis band

	if m.Level() != LevelMedium {
		t.Errorf("level = %v at target FPS, want no change", m.Level())
	}
}

func TestManagerCooldownLimitsChanges(t *testing.T) {
	m := NewManager(LevelUltra, nil)
	feed(m, adjustCooldown+recentWindow, 100*time.Millisecond)

	// One cooldown span allows exactly one step down.
	if m.Level() != LevelHigh {
		t.Errorf("level = %v, cooldown should permit a single step", m.Level())
	}
}

func TestTierDecisionTracksRecentFrames(t *testing.T) {
	m := NewManager(LevelPotato, nil)
	// A long slow stretch followed by a fast tail: the trailing samples
	// justify a raise even while the 30-frame average is still low.
	feed(m, 50, 40*time.Millisecond) // 25 FPS
	feed(m, 15, 10*time.Millisecond) // 100 FPS

	if m.RecentFPS() < targetFPS*raiseThreshold {
		t.Fatalf("recent FPS = %.1f, expected the fast tail to dominate", m.RecentFPS())
	}
	if m.Level() <= LevelPotato {
		t.Errorf("level = %v after a fast tail, want a raise", m.Level())
	}
}

func TestSettingsFollowLevel(t *testing.T) {
	m := NewManager(LevelUltra, nil)
	if got := m.Settings().ProjectileLimit; got != 75 {
		t.Errorf("ultra projectile limit = %d, want 75", got)
	}

	m.ForceLevel(LevelPotato)
	s := m.Settings()
	if s.ProjectileLimit != 15 || s.GravitySkip != 4 || s.Particles {
		t.Errorf("potato settings = %+v", s)
	}
}

func TestShouldSkipCadence(t *testing.T) {
	m := NewManager(LevelMedium, nil)

	if m.ShouldSkip(1, 7) {
		t.Error("skipEvery 1 must never skip")
	}
	ran := 0
	for f := uint64(0); f < 12; f++ {
		if !m.ShouldSkip(3, f) {
			ran++
		}
	}
	if ran != 4 {
		t.Errorf("skipEvery 3 ran %d of 12 frames, want 4", ran)
	}
}

func TestSnapshotTrend(t *testing.T) {
	m := NewManager(LevelMedium, nil)
	// Declining: fast frames then slow frames.
	now := time.Unix(0, 0)
	for i := 0; i < 15; i++ {
		m.RecordFrame(now)
		now = now.Add(10 * time.Millisecond)
	}
	for i := 0; i < 15; i++ {
		m.RecordFrame(now)
		now = now.Add(40 * time.Millisecond)
	}

	if got := m.Snapshot().Trend; got != TrendDeclining {
		t.Errorf("trend = %v, want declining", got)
	}
}
