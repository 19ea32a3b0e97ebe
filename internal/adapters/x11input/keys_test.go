package x11input

import (
	"testing"

	"joymouse/internal/core/joymouse"
)

func TestCodeToXButton(t *testing.T) {
	tests := []struct {
		code uint16
		want byte
		ok   bool
	}{
		{code: joymouse.ButtonLeftCode, want: 1, ok: true},
		{code: 0x112},
		{code: joymouse.ButtonRightCode, want: 3, ok: true},
		{code: joymouse.KeyLeftMetaCode},
	}
	for _, tt := range tests {
		got, ok := codeToXButton(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("codeToXButton(%#x) = %d, %v, want %d, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWheelButton(t *testing.T) {
	if got, ok := wheelButton(1); !ok || got != 4 {
		t.Fatalf("wheelButton(1) = %d, %v, want 4", got, ok)
	}
	if got, ok := wheelButton(-1); !ok || got != 5 {
		t.Fatalf("wheelButton(-1) = %d, %v, want 5", got, ok)
	}
	if _, ok := wheelButton(0); ok {
		t.Fatalf("wheelButton(0) reported a button")
	}
}

func TestLinuxCodeToXKeyString(t *testing.T) {
	if got, ok := linuxCodeToXKeyString(joymouse.KeyLeftMetaCode); !ok || got != "Super_L" {
		t.Fatalf("linuxCodeToXKeyString(KEY_LEFTMETA) = %q, %v, want Super_L", got, ok)
	}
	// KEY_A
	if got, ok := linuxCodeToXKeyString(30); !ok || got != "a" {
		t.Fatalf("linuxCodeToXKeyString(KEY_A) = %q, %v, want a", got, ok)
	}
	if _, ok := linuxCodeToXKeyString(joymouse.ButtonLeftCode); ok {
		t.Fatalf("expected mouse button not to resolve to a keysym")
	}
}

func TestClampInt32ToInt16(t *testing.T) {
	if got := clampInt32ToInt16(40000); got != 32767 {
		t.Fatalf("clampInt32ToInt16(40000) = %d", got)
	}
	if got := clampInt32ToInt16(-40000); got != -32768 {
		t.Fatalf("clampInt32ToInt16(-40000) = %d", got)
	}
	if got := clampInt32ToInt16(-12); got != -12 {
		t.Fatalf("clampInt32ToInt16(-12) = %d", got)
	}
}
