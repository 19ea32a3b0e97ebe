package linuxinput

import (
	"math"
	"sort"
	"strings"

	"joymouse/internal/core/joymouse"

	evdev "github.com/holoplot/go-evdev"
)

const axisLimit = 32767

type axisRange struct {
	index uint8
	min   int32
	max   int32
	flat  int32
}

// joydevLayout numbers evdev codes the way the kernel joydev driver does:
// absolute axes in ascending code order, then buttons from BTN_MISC upward
// followed by the codes below BTN_MISC.
type joydevLayout struct {
	axes    map[evdev.EvCode]axisRange
	buttons map[evdev.EvCode]uint8
}

func newJoydevLayout(absCodes, keyCodes []evdev.EvCode, infos map[evdev.EvCode]evdev.AbsInfo) joydevLayout {
	abs := append([]evdev.EvCode(nil), absCodes...)
	sort.Slice(abs, func(i, j int) bool { return abs[i] < abs[j] })

	layout := joydevLayout{
		axes:    make(map[evdev.EvCode]axisRange, len(abs)),
		buttons: make(map[evdev.EvCode]uint8, len(keyCodes)),
	}
	for i, code := range abs {
		if i > math.MaxUint8 {
			break
		}
		info := infos[code]
		layout.axes[code] = axisRange{
			index: uint8(i),
			min:   info.Minimum,
			max:   info.Maximum,
			flat:  info.Flat,
		}
	}

	keys := append([]evdev.EvCode(nil), keyCodes...)
	sort.Slice(keys, func(i, j int) bool {
		hi, hj := keys[i] >= evdev.BTN_MISC, keys[j] >= evdev.BTN_MISC
		if hi != hj {
			return hi
		}
		return keys[i] < keys[j]
	})
	for i, code := range keys {
		if i > math.MaxUint8 {
			break
		}
		layout.buttons[code] = uint8(i)
	}
	return layout
}

func (l joydevLayout) translate(ev evdev.InputEvent) (joymouse.RawEvent, bool) {
	switch ev.Type {
	case evdev.EV_ABS:
		axis, ok := l.axes[ev.Code]
		if !ok {
			return joymouse.RawEvent{}, false
		}
		return joymouse.RawEvent{
			Kind:  joymouse.RawAxis,
			Index: axis.index,
			Value: axis.normalise(ev.Value),
		}, true
	case evdev.EV_KEY:
		index, ok := l.buttons[ev.Code]
		// Autorepeat reports (value 2) are not transitions.
		if !ok || ev.Value > 1 {
			return joymouse.RawEvent{}, false
		}
		return joymouse.RawEvent{
			Kind:  joymouse.RawButton,
			Index: index,
			Value: int16(ev.Value),
		}, true
	}
	return joymouse.RawEvent{}, false
}

// normalise maps value from the device range onto [-32767, 32767] around the
// range centre. Values within the device's flat zone read as 0.
func (a axisRange) normalise(value int32) int16 {
	if a.max <= a.min {
		return 0
	}
	centre := (float64(a.min) + float64(a.max)) / 2
	half := (float64(a.max) - float64(a.min)) / 2
	offset := float64(value) - centre
	if math.Abs(offset) <= float64(a.flat) {
		return 0
	}
	scaled := math.Round(offset / half * axisLimit)
	return int16(math.Max(-axisLimit, math.Min(axisLimit, scaled)))
}

func hasGamepadCapabilities(absCodes, keyCodes []evdev.EvCode) bool {
	var hasX, hasY bool
	for _, code := range absCodes {
		switch code {
		case evdev.ABS_X:
			hasX = true
		case evdev.ABS_Y:
			hasY = true
		}
	}
	if !hasX || !hasY {
		return false
	}
	for _, code := range keyCodes {
		if code >= evdev.BTN_JOYSTICK && code < evdev.BTN_DIGI {
			return true
		}
	}
	return false
}

func nameLooksVirtual(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range []string{"virtual", "uinput", "joymouse"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
