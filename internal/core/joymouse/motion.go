package joymouse

import "math"

// Motion converts a left stick position into a relative pointer displacement
// for one frame. Magnitudes at or below the deadzone produce nothing; beyond
// it the speed ramps linearly from 0 to cfg.MaxSpeed. Each component is
// scaled by the clamped magnitude, so a diagonal beyond the stick's circular
// range moves at MaxSpeed on both axes.
func Motion(stick Stick, cfg Config) (dx, dy int32, ok bool) {
	x, y := float64(stick.X), float64(stick.Y)
	magnitude := math.Min(math.Hypot(x, y), cfg.MaxJoystick)

	threshold := cfg.Deadzone * cfg.MaxJoystick
	if magnitude <= threshold {
		return 0, 0, false
	}

	scale := (magnitude - threshold) / (cfg.MaxJoystick - threshold)
	speed := math.Round(float64(cfg.MaxSpeed) * scale)

	dx = int32(math.Round(speed * x / magnitude))
	dy = int32(math.Round(speed * y / magnitude))
	return dx, dy, dx != 0 || dy != 0
}
