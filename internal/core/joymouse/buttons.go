package joymouse

import (
	"context"
	"time"
)

type buttonActionKind uint8

const (
	actionClick buttonActionKind = iota + 1
	actionTap
)

type buttonAction struct {
	kind buttonActionKind
	code uint16
}

var buttonMap = map[uint8]buttonAction{
	0:  {kind: actionClick, code: ButtonLeftCode},
	1:  {kind: actionClick, code: ButtonRightCode},
	12: {kind: actionTap, code: KeyLeftMetaCode},
}

// Dispatcher fires the synthetic action bound to a gamepad button when it
// goes from released to pressed.
type Dispatcher struct {
	sink    Sink
	logger  Logger
	hold    time.Duration
	sleep   func(ctx context.Context, d time.Duration) bool
	pressed [256]bool
}

func NewDispatcher(sink Sink, logger Logger, hold time.Duration) *Dispatcher {
	return &Dispatcher{
		sink:   sink,
		logger: logger,
		hold:   hold,
		sleep:  sleepContext,
	}
}

// Handle applies one button report. Every change of state is logged; only
// presses of mapped buttons emit output. Initial-state reports update the
// tracked state without firing.
func (d *Dispatcher) Handle(ctx context.Context, ev RawEvent) error {
	pressed := ev.Value != 0
	if d.pressed[ev.Index] == pressed {
		return nil
	}
	d.pressed[ev.Index] = pressed

	if ev.Init {
		d.logger.Debug("Initial button state", "button", ev.Index, "pressed", pressed)
		return nil
	}

	state := "released"
	if pressed {
		state = "pressed"
	}
	d.logger.Info("Button", "button", ev.Index, "state", state)

	if !pressed {
		return nil
	}
	action, ok := buttonMap[ev.Index]
	if !ok {
		return nil
	}

	switch action.kind {
	case actionClick:
		return d.click(ctx, action.code)
	case actionTap:
		return d.sink.WriteEvents(
			Event{Type: EventTypeKey, Code: action.code, Value: 1},
			Event{Type: EventTypeKey, Code: action.code, Value: 0},
		)
	}
	return nil
}

// click always sends the release, even when ctx ends during the hold, so the
// display server is never left with a stuck button.
func (d *Dispatcher) click(ctx context.Context, code uint16) error {
	if err := d.sink.WriteEvents(Event{Type: EventTypeButton, Code: code, Value: 1}); err != nil {
		return err
	}
	d.sleep(ctx, d.hold)
	return d.sink.WriteEvents(Event{Type: EventTypeButton, Code: code, Value: 0})
}
