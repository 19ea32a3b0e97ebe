package joymouse

import (
	"fmt"
	"time"
)

type RightStickMode string

const (
	ModeScroll RightStickMode = "scroll"
	ModeWarp   RightStickMode = "warp"
)

type Config struct {
	MaxSpeed         int            `toml:"max_speed"`
	MaxJoystick      float64        `toml:"max_joystick"`
	Deadzone         float64        `toml:"deadzone"`
	UpdateFrequency  float64        `toml:"update_frequency"`
	ClickHold        time.Duration  `toml:"click_hold"`
	ScrollMultiplier int            `toml:"scroll_multiplier"`
	ScrollNotch      float64        `toml:"scroll_notch"`
	ScrollDecay      float64        `toml:"scroll_decay"`
	ScrollStepPause  time.Duration  `toml:"scroll_step_pause"`
	MaxWarpVelocity  float64        `toml:"max_warp_velocity"`
	WarpDeadzone     float64        `toml:"warp_deadzone"`
	RightStick       RightStickMode `toml:"right_stick"`
	MaxDrain         int            `toml:"max_drain"`
}

// LegacyScrollDecay reproduces the partial decay of older builds, which
// realises roughly 1.7 notches per 2.0 units of accumulated deflection.
const LegacyScrollDecay = 1.2

func DefaultConfig() Config {
	return Config{
		MaxSpeed:         8,
		MaxJoystick:      32767,
		Deadzone:         0.1,
		UpdateFrequency:  160,
		ClickHold:        50 * time.Millisecond,
		ScrollMultiplier: 1,
		ScrollNotch:      2,
		ScrollDecay:      2,
		ScrollStepPause:  time.Millisecond,
		MaxWarpVelocity:  50,
		WarpDeadzone:     0,
		RightStick:       ModeScroll,
		MaxDrain:         256,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MaxSpeed <= 0:
		return fmt.Errorf("max_speed must be > 0")
	case c.MaxJoystick <= 0:
		return fmt.Errorf("max_joystick must be > 0")
	case c.Deadzone < 0 || c.Deadzone >= 1:
		return fmt.Errorf("deadzone must be in [0, 1)")
	case c.UpdateFrequency <= 0:
		return fmt.Errorf("update_frequency must be > 0")
	case c.ClickHold < 0:
		return fmt.Errorf("click_hold must be >= 0")
	case c.ScrollMultiplier <= 0:
		return fmt.Errorf("scroll_multiplier must be > 0")
	case c.ScrollNotch < 1:
		return fmt.Errorf("scroll_notch must be >= 1")
	case c.ScrollDecay <= 0 || c.ScrollDecay > c.ScrollNotch:
		return fmt.Errorf("scroll_decay must be in (0, scroll_notch]")
	case c.ScrollStepPause < 0:
		return fmt.Errorf("scroll_step_pause must be >= 0")
	case c.MaxWarpVelocity <= 0:
		return fmt.Errorf("max_warp_velocity must be > 0")
	case c.WarpDeadzone < 0 || c.WarpDeadzone >= 1:
		return fmt.Errorf("warp_deadzone must be in [0, 1)")
	case c.MaxDrain <= 0:
		return fmt.Errorf("max_drain must be > 0")
	}
	if _, err := ParseRightStickMode(string(c.RightStick)); err != nil {
		return err
	}
	return nil
}

func ParseRightStickMode(value string) (RightStickMode, error) {
	switch RightStickMode(value) {
	case ModeScroll, ModeWarp:
		return RightStickMode(value), nil
	default:
		return "", fmt.Errorf("invalid right stick mode %q (expected scroll|warp)", value)
	}
}

// FramePeriod is the target duration of one loop iteration.
func (c Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.UpdateFrequency)
}
