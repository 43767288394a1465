package game

import (
	"testing"
	"time"
)

// testClock steps a fake wall clock.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *testClock { return &testClock{t: time.Unix(1000, 0)} }

func newTestLimiter(c *testClock) *RateLimiter {
	r := NewRateLimiter(5, 3, 3)
	r.SetClock(c.now)
	return r
}

func TestLimiterAllowsUpToCap(t *testing.T) {
	c := newTestClock()
	r := newTestLimiter(c)

	for i := 0; i < 5; i++ {
		if !r.TryShoot() {
			t.Fatalf("shot %d rejected under the cap", i)
		}
		c.advance(100 * time.Millisecond)
	}
	if r.TryShoot() {
		t.Error("shot over the cap was allowed")
	}
}

func TestLimiterCooldownBlocksAndExpires(t *testing.T) {
	c := newTestClock()
	r := newTestLimiter(c)

	for i := 0; i < 5; i++ {
		r.TryShoot()
	}
	r.TryShoot() // trips the cooldown

	if r.State() != LimiterCooldown {
		t.Fatalf("state = %v, want cooldown", r.State())
	}
	c.advance(2 * time.Second)
	if r.TryShoot() {
		t.Error("shot allowed mid-cooldown")
	}

	c.advance(1100 * time.Millisecond)
	if r.State() == LimiterCooldown {
		t.Error("cooldown did not expire")
	}
	if !r.TryShoot() {
		t.Error("shot rejected after cooldown expired")
	}
}

func TestLimiterWindowSlides(t *testing.T) {
	c := newTestClock()
	r := newTestLimiter(c)

	for i := 0; i < 4; i++ {
		r.TryShoot()
	}
	// Old shots age out; capacity returns without a cooldown.
	c.advance(3100 * time.Millisecond)
	if got := r.ShotsRemaining(); got != 5 {
		t.Errorf("shots remaining after window passed = %d, want 5", got)
	}
}

func TestLimiterWarningThreshold(t *testing.T) {
	c := newTestClock()
	r := newTestLimiter(c)

	for i := 0; i < 3; i++ {
		r.TryShoot()
	}
	if r.State() != LimiterNormal {
		t.Errorf("state at 3/5 = %v, want normal", r.State())
	}
	r.TryShoot()
	if r.State() != LimiterWarning {
		t.Errorf("state at 4/5 = %v, want warning", r.State())
	}
}

func TestLimiterProgress(t *testing.T) {
	c := newTestClock()
	r := newTestLimiter(c)

	if r.Progress() != 0 {
		t.Errorf("fresh limiter progress = %f", r.Progress())
	}
	r.TryShoot()
	r.TryShoot()
	if got := r.Progress(); got != 0.4 {
		t.Errorf("progress at 2/5 = %f, want 0.4", got)
	}

	for i := 0; i < 4; i++ {
		r.TryShoot()
	}
	// Cooldown meter drains as time passes.
	start := r.Progress()
	c.advance(1500 * time.Millisecond)
	if got := r.Progress(); got >= start {
		t.Errorf("cooldown progress did not drain: %f -> %f", start, got)
	}
}

func TestLimiterReset(t *testing.T) {
	c := newTestClock()
	r := newTestLimiter(c)

	for i := 0; i < 6; i++ {
		r.TryShoot()
	}
	r.Reset()
	if r.State() != LimiterNormal || !r.TryShoot() {
		t.Error("reset did not clear shots and cooldown")
	}
}
