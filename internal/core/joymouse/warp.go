package joymouse

import "math"

// Warp converts a right stick position into a pointer jump relative to the
// current position. The jump grows with the square of the deflection, up to
// cfg.MaxWarpVelocity pixels per frame at full tilt. Only cfg.WarpDeadzone
// filters small deflections; it is zero by default.
func Warp(stick Stick, cfg Config) (dx, dy int32, ok bool) {
	if stick.X == 0 && stick.Y == 0 {
		return 0, 0, false
	}

	x, y := float64(stick.X), float64(stick.Y)
	magnitude := math.Hypot(x, y)
	if magnitude <= cfg.WarpDeadzone*cfg.MaxJoystick {
		return 0, 0, false
	}

	velocity := magnitude / cfg.MaxJoystick * cfg.MaxWarpVelocity
	dx = int32(math.Round(x / cfg.MaxJoystick * velocity))
	dy = int32(math.Round(y / cfg.MaxJoystick * velocity))
	return dx, dy, dx != 0 || dy != 0
}
