package joymouse

import "fmt"

// RightStick turns the right stick state of one frame into output events.
type RightStick interface {
	Name() string
	Frame(right Stick) []Event
}

func NewRightStick(cfg Config) (RightStick, error) {
	switch cfg.RightStick {
	case ModeScroll:
		return &scrollStick{cfg: cfg}, nil
	case ModeWarp:
		return &warpStick{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("invalid right stick mode %q (expected scroll|warp)", cfg.RightStick)
	}
}

type scrollStick struct {
	cfg Config
	acc float64
}

func (s *scrollStick) Name() string {
	return string(ModeScroll)
}

func (s *scrollStick) Frame(right Stick) []Event {
	var steps int
	steps, s.acc = Scroll(right.Y, s.acc, s.cfg)
	if steps == 0 {
		return nil
	}

	value := int32(1)
	if steps < 0 {
		value = -1
		steps = -steps
	}
	events := make([]Event, steps)
	for i := range events {
		events[i] = Event{Type: EventTypeWheel, Value: value}
	}
	return events
}

type warpStick struct {
	cfg Config
}

func (w *warpStick) Name() string {
	return string(ModeWarp)
}

func (w *warpStick) Frame(right Stick) []Event {
	dx, dy, ok := Warp(right, w.cfg)
	if !ok {
		return nil
	}
	return []Event{{Type: EventTypeWarp, DX: dx, DY: dy}}
}
