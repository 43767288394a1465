// Package perf adapts simulation detail to the measured frame rate.
package perf

import (
	"time"

	"github.com/charmbracelet/log"
)

// Level is a detail tier. Levels order from cheapest to richest.
type Level int

const (
	LevelPotato Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelUltra
)

func (l Level) String() string {
	switch l {
	case LevelPotato:
		return "potato"
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelUltra:
		return "ultra"
	default:
		return "unknown"
	}
}

// Settings holds the knobs a tier controls.
type Settings struct {
	ProjectileLimit   int
	GridDensity       float64
	CollisionCellSize float64
	GravitySkip       int
	RenderDistance    float64
	Particles         bool
	HighQuality       bool
}

var tierSettings = map[Level]Settings{
	LevelUltra:  {ProjectileLimit: 75, GridDensity: 1.0, CollisionCellSize: 80, GravitySkip: 1, RenderDistance: 1.0, Particles: true, HighQuality: true},
	LevelHigh:   {ProjectileLimit: 50, GridDensity: 0.8, CollisionCellSize: 100, GravitySkip: 1, RenderDistance: 1.0, Particles: true, HighQuality: true},
	LevelMedium: {ProjectileLimit: 35, GridDensity: 0.6, CollisionCellSize: 120, GravitySkip: 2, RenderDistance: 0.8, Particles: true, HighQuality: false},
	LevelLow:    {ProjectileLimit: 25, GridDensity: 0.4, CollisionCellSize: 150, GravitySkip: 3, RenderDistance: 0.6, Particles: false, HighQuality: false},
	LevelPotato: {ProjectileLimit: 15, GridDensity: 0.25, CollisionCellSize: 200, GravitySkip: 4, RenderDistance: 0.4, Particles: false, HighQuality: false},
}

const (
	frameWindow    = 30
	fpsHistorySize = 120
	recentWindow   = 10 // samples feeding the tier decision
	targetFPS      = 45.0
	adjustCooldown = 60 // frames between level changes
	dropThreshold  = 0.80
	raiseThreshold = 1.10
)

// Trend describes the recent FPS direction.
type Trend int

const (
	TrendStable Trend = iota
	TrendImproving
	TrendDeclining
)

func (t Trend) String() string {
	switch t {
	case TrendImproving:
		return "improving"
	case TrendDeclining:
		return "declining"
	default:
		return "stable"
	}
}

// Report is a point-in-time snapshot for HUD display and logging.
type Report struct {
	Level      Level
	FPS        float64
	AverageFPS float64
	Trend      Trend
	Frames     uint64
}

// Manager tracks frame times and walks the detail level up or down so
// the simulation holds its target frame rate.
type Manager struct {
	level    Level
	settings Settings
	dirty    bool

	frameTimes []time.Duration
	fpsHistory []float64

	frames       uint64
	lastAdjust   uint64
	lastFrame    time.Time
	hasLastFrame bool

	logger *log.Logger
}

// NewManager starts at the given level. logger may be nil.
func NewManager(start Level, logger *log.Logger) *Manager {
	return &Manager{
		level:      start,
		settings:   tierSettings[start],
		frameTimes: make([]time.Duration, 0, frameWindow),
		fpsHistory: make([]float64, 0, fpsHistorySize),
		logger:     logger,
	}
}

// RecordFrame marks the start of a frame and feeds the rolling windows.
func (m *Manager) RecordFrame(now time.Time) {
	m.frames++
	if !m.hasLastFrame {
		m.lastFrame = now
		m.hasLastFrame = true
		return
	}
	dt := now.Sub(m.lastFrame)
	m.lastFrame = now
	if dt <= 0 {
		return
	}

	m.frameTimes = append(m.frameTimes, dt)
	if len(m.frameTimes) > frameWindow {
		m.frameTimes = m.frameTimes[1:]
	}
	m.fpsHistory = append(m.fpsHistory, float64(time.Second)/float64(dt))
	if len(m.fpsHistory) > fpsHistorySize {
		m.fpsHistory = m.fpsHistory[1:]
	}

	m.maybeAdjust()
}

// CurrentFPS averages over the short frame-time window.
func (m *Manager) CurrentFPS() float64 {
	if len(m.frameTimes) == 0 {
		return targetFPS
	}
	var total time.Duration
	for _, d := range m.frameTimes {
		total += d
	}
	avg := total / time.Duration(len(m.frameTimes))
	if avg <= 0 {
		return targetFPS
	}
	return float64(time.Second) / float64(avg)
}

// AverageFPS averages over the long history window.
func (m *Manager) AverageFPS() float64 {
	if len(m.fpsHistory) == 0 {
		return targetFPS
	}
	var sum float64
	for _, f := range m.fpsHistory {
		sum += f
	}
	return sum / float64(len(m.fpsHistory))
}

// RecentFPS averages the newest history samples. Tier decisions key
// off this short tail so they react faster than AverageFPS but still
// ride out single-frame spikes.
func (m *Manager) RecentFPS() float64 {
	n := len(m.fpsHistory)
	if n == 0 {
		return targetFPS
	}
	if n > recentWindow {
		return mean(m.fpsHistory[n-recentWindow:])
	}
	return mean(m.fpsHistory)
}

func (m *Manager) maybeAdjust() {
	if len(m.fpsHistory) < recentWindow {
		return
	}
	if m.frames-m.lastAdjust < adjustCooldown {
		return
	}

	fps := m.RecentFPS()
	switch {
	case fps < targetFPS*dropThreshold && m.level > LevelPotato:
		m.setLevel(m.level - 1)
	case fps > targetFPS*raiseThreshold && m.level < LevelUltra:
		m.setLevel(m.level + 1)
	}
}

func (m *Manager) setLevel(l Level) {
	if l == m.level {
		return
	}
	prev := m.level
	m.level = l
	m.settings = tierSettings[l]
	m.dirty = true
	m.lastAdjust = m.frames
	if m.logger != nil {
		m.logger.Info("detail level changed", "from", prev.String(), "to", l.String(), "fps", m.RecentFPS())
	}
}

// ForceLevel pins the level manually and resets the cooldown.
func (m *Manager) ForceLevel(l Level) {
	m.setLevel(l)
	m.lastAdjust = m.frames
}

// Level returns the current detail level.
func (m *Manager) Level() Level { return m.level }

// Settings returns the current tier's knobs.
func (m *Manager) Settings() Settings { return m.settings }

// ConsumeDirty reports whether the level changed since the last call
// and clears the flag. Callers rebuild level-dependent caches on true.
func (m *Manager) ConsumeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}

// ShouldSkip reports whether a periodic operation sits out this frame.
// skipEvery of 1 never skips; 2 runs every other frame, and so on.
func (m *Manager) ShouldSkip(skipEvery int, frame uint64) bool {
	if skipEvery <= 1 {
		return false
	}
	return frame%uint64(skipEvery) != 0
}

// Snapshot builds a Report for the HUD.
func (m *Manager) Snapshot() Report {
	return Report{
		Level:      m.level,
		FPS:        m.CurrentFPS(),
		AverageFPS: m.AverageFPS(),
		Trend:      m.trend(),
		Frames:     m.frames,
	}
}

func (m *Manager) trend() Trend {
	n := len(m.fpsHistory)
	if n < 20 {
		return TrendStable
	}
	recent := mean(m.fpsHistory[n-10:])
	older := mean(m.fpsHistory[n-20 : n-10])
	switch {
	case recent > older*1.05:
		return TrendImproving
	case recent < older*0.95:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
