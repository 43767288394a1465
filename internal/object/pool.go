package object

import "github.com/tomz197/orbitduel/internal/geom"

// ProjectilePool is a fixed-capacity recycling pool for projectiles. It
// bounds both allocation churn and the number of simultaneously active
// projectiles: Acquire returns nil at the hard ceiling, which callers treat
// as a normal outcome.
type ProjectilePool struct {
	maxSize   int
	available []*Projectile
	active    []*Projectile

	totalCreated int
	totalReused  int
	peakActive   int
}

// PoolStats is a snapshot of pool counters for the HUD/debug line.
type PoolStats struct {
	Active       int
	Available    int
	TotalCreated int
	TotalReused  int
	PeakActive   int
}

// NewProjectilePool pre-allocates initialSize inert projectiles. maxSize is
// the ceiling on simultaneously active projectiles and on the free list.
func NewProjectilePool(initialSize, maxSize int) *ProjectilePool {
	p := &ProjectilePool{
		maxSize:      maxSize,
		available:    make([]*Projectile, 0, initialSize),
		totalCreated: initialSize,
	}
	for i := 0; i < initialSize; i++ {
		p.available = append(p.available, &Projectile{})
	}
	return p
}

// Acquire returns a reset projectile positioned and moving as given, or nil
// if the pool is at capacity.
func (p *ProjectilePool) Acquire(pos, vel geom.Vec2, owner Side, mass, radius float64, damage int) *Projectile {
	if len(p.active) >= p.maxSize {
		return nil
	}

	var pr *Projectile
	if n := len(p.available); n > 0 {
		pr = p.available[n-1]
		p.available = p.available[:n-1]
		p.totalReused++
	} else {
		pr = &Projectile{}
		p.totalCreated++
	}

	*pr = Projectile{
		Pos:          pos,
		Vel:          vel,
		Mass:         mass,
		Radius:       radius,
		Damage:       damage,
		Owner:        owner,
		Active:       true,
		JustLaunched: true,
		MaxBounces:   MaxProjectileBounces,
	}

	p.active = append(p.active, pr)
	if len(p.active) > p.peakActive {
		p.peakActive = len(p.active)
	}
	return pr
}

// Release returns a projectile to the free list, zeroing its state. If the
// free list is already full the projectile is dropped for the GC to collect.
// Returns false if pr was not in the active list.
func (p *ProjectilePool) Release(pr *Projectile) bool {
	idx := -1
	for i, a := range p.active {
		if a == pr {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	p.active = append(p.active[:idx], p.active[idx+1:]...)
	*pr = Projectile{}

	if len(p.available) < p.maxSize {
		p.available = append(p.available, pr)
		return true
	}
	return false
}

// ReleaseInactive recycles every active-list entry whose Active flag has been
// cleared. Returns how many were recycled. Run once per frame after
// collisions so deactivation within a frame never mutates the list mid-scan.
func (p *ProjectilePool) ReleaseInactive() int {
	released := 0
	for i := len(p.active) - 1; i >= 0; i-- {
		if !p.active[i].Active {
			if p.Release(p.active[i]) {
				released++
			}
		}
	}
	return released
}

// Active appends all projectiles that are both in the active list and still
// flagged active to dst and returns it.
func (p *ProjectilePool) Active(dst []*Projectile) []*Projectile {
	for _, pr := range p.active {
		if pr.Active {
			dst = append(dst, pr)
		}
	}
	return dst
}

// ActiveCount returns the size of the active list, including entries that
// are flagged inactive but not yet reclaimed this frame.
func (p *ProjectilePool) ActiveCount() int {
	return len(p.active)
}

// ClearAll deactivates and recycles everything. Used on goal score.
func (p *ProjectilePool) ClearAll() {
	for _, pr := range p.active {
		pr.Active = false
	}
	p.ReleaseInactive()
}

// Stats returns current pool counters.
func (p *ProjectilePool) Stats() PoolStats {
	return PoolStats{
		Active:       len(p.active),
		Available:    len(p.available),
		TotalCreated: p.totalCreated,
		TotalReused:  p.totalReused,
		PeakActive:   p.peakActive,
	}
}
