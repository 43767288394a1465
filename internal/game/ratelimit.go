package game

import "time"

// LimiterState describes where a shooter sits in the rate limit cycle.
type LimiterState int

const (
	LimiterNormal LimiterState = iota
	LimiterWarning
	LimiterCooldown
)

func (s LimiterState) String() string {
	switch s {
	case LimiterWarning:
		return "warning"
	case LimiterCooldown:
		return "cooldown"
	default:
		return "normal"
	}
}

// RateLimiter caps shots per sliding wall-clock window and enforces a
// cooldown once the cap is hit. The clock is injectable for tests.
type RateLimiter struct {
	maxShots int
	window   time.Duration
	cooldown time.Duration

	shots         []time.Time
	cooldownUntil time.Time
	now           func() time.Time
}

// NewRateLimiter builds a limiter with window and cooldown in seconds.
func NewRateLimiter(maxShots int, windowSec, cooldownSec float64) *RateLimiter {
	return &RateLimiter{
		maxShots: maxShots,
		window:   time.Duration(windowSec * float64(time.Second)),
		cooldown: time.Duration(cooldownSec * float64(time.Second)),
		shots:    make([]time.Time, 0, maxShots),
		now:      time.Now,
	}
}

// SetClock replaces the time source. Tests use this to step time
// deterministically.
func (r *RateLimiter) SetClock(now func() time.Time) {
	r.now = now
}

func (r *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.shots) && !r.shots[i].After(cutoff) {
		i++
	}
	if i > 0 {
		r.shots = append(r.shots[:0], r.shots[i:]...)
	}
}

// TryShoot records a shot if allowed. Hitting the cap starts the
// cooldown and still rejects the triggering shot.
func (r *RateLimiter) TryShoot() bool {
	now := r.now()
	if now.Before(r.cooldownUntil) {
		return false
	}
	r.prune(now)
	if len(r.shots) >= r.maxShots {
		r.cooldownUntil = now.Add(r.cooldown)
		r.shots = r.shots[:0]
		return false
	}
	r.shots = append(r.shots, now)
	return true
}

// State reports the limiter phase for HUD feedback. Warning starts at
// 80 percent of the cap.
func (r *RateLimiter) State() LimiterState {
	now := r.now()
	if now.Before(r.cooldownUntil) {
		return LimiterCooldown
	}
	r.prune(now)
	if float64(len(r.shots)) >= float64(r.maxShots)*0.8 {
		return LimiterWarning
	}
	return LimiterNormal
}

// Progress returns a 0..1 meter. In cooldown it is the fraction of the
// cooldown remaining; otherwise the fraction of the window cap used.
func (r *RateLimiter) Progress() float64 {
	now := r.now()
	if now.Before(r.cooldownUntil) {
		left := r.cooldownUntil.Sub(now)
		return clamp01(float64(left) / float64(r.cooldown))
	}
	r.prune(now)
	if r.maxShots == 0 {
		return 0
	}
	return clamp01(float64(len(r.shots)) / float64(r.maxShots))
}

// ShotsRemaining reports how many shots fit in the current window, or
// zero during cooldown.
func (r *RateLimiter) ShotsRemaining() int {
	now := r.now()
	if now.Before(r.cooldownUntil) {
		return 0
	}
	r.prune(now)
	return r.maxShots - len(r.shots)
}

// Reset clears all shot history and any active cooldown.
func (r *RateLimiter) Reset() {
	r.shots = r.shots[:0]
	r.cooldownUntil = time.Time{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
