package x11input

import (
	"strings"

	"joymouse/internal/adapters/linuxinput"
	"joymouse/internal/core/joymouse"
)

// X core protocol pointer buttons.
const (
	buttonLeft      byte = 1
	buttonRight     byte = 3
	buttonWheelUp   byte = 4
	buttonWheelDown byte = 5
)

func codeToXButton(code uint16) (byte, bool) {
	switch code {
	case joymouse.ButtonLeftCode:
		return buttonLeft, true
	case joymouse.ButtonRightCode:
		return buttonRight, true
	default:
		return 0, false
	}
}

// wheelButton maps a signed wheel step to the button X uses for it.
// Positive scrolls up.
func wheelButton(value int32) (byte, bool) {
	switch {
	case value > 0:
		return buttonWheelUp, true
	case value < 0:
		return buttonWheelDown, true
	default:
		return 0, false
	}
}

// linuxCodeToXKeyString names the keysym for a kernel key code.
func linuxCodeToXKeyString(code uint16) (string, bool) {
	name := linuxinput.FormatCodeName(code)
	if !strings.HasPrefix(name, "KEY_") {
		return "", false
	}
	token := strings.TrimPrefix(name, "KEY_")

	switch token {
	case "ESC":
		return "Escape", true
	case "ENTER":
		return "Return", true
	case "TAB":
		return "Tab", true
	case "SPACE":
		return "space", true
	case "LEFTSHIFT":
		return "Shift_L", true
	case "LEFTCTRL":
		return "Control_L", true
	case "LEFTALT":
		return "Alt_L", true
	case "LEFTMETA":
		return "Super_L", true
	case "RIGHTMETA":
		return "Super_R", true
	case "MENU":
		return "Menu", true
	}

	if len(token) == 1 && token[0] >= 'A' && token[0] <= 'Z' {
		return strings.ToLower(token), true
	}
	return "", false
}

func clampInt32ToInt16(value int32) int16 {
	if value < -32768 {
		return -32768
	}
	if value > 32767 {
		return 32767
	}
	return int16(value)
}
