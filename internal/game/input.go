package game

import "github.com/tomz197/orbitduel/internal/geom"

// PlayerInput is one player's intent for a single frame.
type PlayerInput struct {
	// Accel is the requested thrust direction, unit length or zero.
	Accel geom.Vec2
	// Fire is true on the frame the trigger was pressed.
	Fire bool
}

// FrameInput bundles both players' intents for one engine step.
type FrameInput struct {
	Red    PlayerInput
	Purple PlayerInput
}
