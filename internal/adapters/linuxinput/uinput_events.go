package linuxinput

import (
	"joymouse/internal/core/joymouse"

	evdev "github.com/holoplot/go-evdev"
)

func uinputCapabilities() map[evdev.EvType][]evdev.EvCode {
	return map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: {evdev.KEY_LEFTMETA, evdev.BTN_LEFT, evdev.BTN_RIGHT},
		evdev.EV_REL: {evdev.REL_X, evdev.REL_Y, evdev.REL_WHEEL},
	}
}

// uinputEvents converts one output batch into kernel events. Every key or
// button change closes its own report so press and release are never
// coalesced; relative motion is closed by a trailing report.
func uinputEvents(events []joymouse.Event) []evdev.InputEvent {
	out := make([]evdev.InputEvent, 0, len(events)*3+1)
	syn := evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
	pending := false

	rel := func(code evdev.EvCode, value int32) {
		if value == 0 {
			return
		}
		out = append(out, evdev.InputEvent{Type: evdev.EV_REL, Code: code, Value: value})
		pending = true
	}

	for _, ev := range events {
		switch ev.Type {
		case joymouse.EventTypeMotion, joymouse.EventTypeWarp:
			rel(evdev.REL_X, ev.DX)
			rel(evdev.REL_Y, ev.DY)
		case joymouse.EventTypeWheel:
			rel(evdev.REL_WHEEL, ev.Value)
		case joymouse.EventTypeButton, joymouse.EventTypeKey:
			out = append(out, evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.EvCode(ev.Code), Value: ev.Value}, syn)
			pending = false
		}
	}
	if pending {
		out = append(out, syn)
	}
	return out
}
