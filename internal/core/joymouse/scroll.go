package joymouse

import "math"

// Scroll advances the scroll accumulator by one frame of right stick Y
// deflection. Pushing the stick away (negative Y) scrolls up. It returns the
// signed number of wheel steps to emit and the accumulator for the next
// frame; realised notches are subtracted so the remainder carries over.
// The accumulator is reduced by notches*ScrollDecay before ScrollMultiplier
// is applied, so the multiplier repeats wheel steps without draining it.
func Scroll(value int16, acc float64, cfg Config) (steps int, next float64) {
	rate := -float64(value) / (cfg.MaxJoystick / 2)
	next = acc + rate
	if math.Abs(next) < 1 {
		return 0, next
	}

	notches := math.Trunc(next / cfg.ScrollNotch)
	if notches == 0 {
		return 0, next
	}
	next -= notches * cfg.ScrollDecay
	return int(notches) * cfg.ScrollMultiplier, next
}
