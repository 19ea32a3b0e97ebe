package linuxinput

import (
	"strconv"

	evdev "github.com/holoplot/go-evdev"
)

// FormatCodeName names a key or button code, falling back to the number for
// codes go-evdev does not know.
func FormatCodeName(code uint16) string {
	return codeName(evdev.EV_KEY, code)
}

func axisName(code uint16) string {
	return codeName(evdev.EV_ABS, code)
}

func codeName(typ evdev.EvType, code uint16) string {
	name := evdev.CodeName(typ, evdev.EvCode(code))
	if name == "" || name == "unknown" {
		return strconv.Itoa(int(code))
	}
	return name
}
