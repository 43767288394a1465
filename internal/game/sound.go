package game

// SoundKind names a gameplay event with an audio cue.
type SoundKind int

const (
	SoundShoot SoundKind = iota
	SoundShipHit
	SoundSquareHit
	SoundWallBounce
	SoundScore
	SoundRoundWin
	SoundPowerup
)

// SoundEvent is an audio cue with a 0..1 volume scaled by how hard the
// triggering contact was.
type SoundEvent struct {
	Kind   SoundKind
	Volume float64
}

// impactVolume maps a relative collision speed onto 0.2..1.0 so soft
// grazes stay audible but quiet.
func impactVolume(relSpeed, maxSpeed float64) float64 {
	if maxSpeed <= 0 {
		return 1
	}
	v := relSpeed / maxSpeed
	if v > 1 {
		v = 1
	}
	return 0.2 + 0.8*v
}
