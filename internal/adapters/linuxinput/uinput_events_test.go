package linuxinput

import (
	"testing"

	"joymouse/internal/core/joymouse"

	evdev "github.com/holoplot/go-evdev"
)

func assertEvents(t *testing.T, got, want []evdev.InputEvent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d events %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].Type != want[i].Type || got[i].Code != want[i].Code || got[i].Value != want[i].Value {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

var synReport = evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}

func TestUinputEventsMotion(t *testing.T) {
	got := uinputEvents([]joymouse.Event{{Type: joymouse.EventTypeMotion, DX: 3, DY: -2}})
	assertEvents(t, got, []evdev.InputEvent{
		{Type: evdev.EV_REL, Code: evdev.REL_X, Value: 3},
		{Type: evdev.EV_REL, Code: evdev.REL_Y, Value: -2},
		synReport,
	})
}

func TestUinputEventsSkipsZeroAxis(t *testing.T) {
	got := uinputEvents([]joymouse.Event{{Type: joymouse.EventTypeWarp, DX: 0, DY: 50}})
	assertEvents(t, got, []evdev.InputEvent{
		{Type: evdev.EV_REL, Code: evdev.REL_Y, Value: 50},
		synReport,
	})
}

func TestUinputEventsWheel(t *testing.T) {
	got := uinputEvents([]joymouse.Event{{Type: joymouse.EventTypeWheel, Value: -1}})
	assertEvents(t, got, []evdev.InputEvent{
		{Type: evdev.EV_REL, Code: evdev.REL_WHEEL, Value: -1},
		synReport,
	})
}

func TestUinputEventsKeyTapIsTwoReports(t *testing.T) {
	got := uinputEvents([]joymouse.Event{
		{Type: joymouse.EventTypeKey, Code: joymouse.KeyLeftMetaCode, Value: 1},
		{Type: joymouse.EventTypeKey, Code: joymouse.KeyLeftMetaCode, Value: 0},
	})
	assertEvents(t, got, []evdev.InputEvent{
		{Type: evdev.EV_KEY, Code: evdev.KEY_LEFTMETA, Value: 1},
		synReport,
		{Type: evdev.EV_KEY, Code: evdev.KEY_LEFTMETA, Value: 0},
		synReport,
	})
}

func TestUinputEventsEmptyBatch(t *testing.T) {
	if got := uinputEvents(nil); len(got) != 0 {
		t.Fatalf("uinputEvents(nil) = %+v", got)
	}
}

func TestUinputCapabilitiesCoverOutput(t *testing.T) {
	caps := uinputCapabilities()
	has := func(typ evdev.EvType, code evdev.EvCode) bool {
		for _, c := range caps[typ] {
			if c == code {
				return true
			}
		}
		return false
	}
	for _, code := range []uint16{joymouse.ButtonLeftCode, joymouse.ButtonRightCode, joymouse.KeyLeftMetaCode} {
		if !has(evdev.EV_KEY, evdev.EvCode(code)) {
			t.Fatalf("capabilities missing key %s", FormatCodeName(code))
		}
	}
	for _, code := range []evdev.EvCode{evdev.REL_X, evdev.REL_Y, evdev.REL_WHEEL} {
		if !has(evdev.EV_REL, code) {
			t.Fatalf("capabilities missing rel code %d", code)
		}
	}
}
