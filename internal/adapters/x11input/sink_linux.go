//go:build linux

package x11input

import (
	"fmt"
	"sync"

	"joymouse/internal/adapters/linuxinput"
	"joymouse/internal/core/joymouse"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Sink delivers output to an X server through the XTEST extension.
type Sink struct {
	xu      *xgbutil.XUtil
	conn    *xgb.Conn
	rootWin xproto.Window

	mu       sync.Mutex
	keycodes map[uint16]xproto.Keycode
	closed   bool
}

// Open connects to display, or to $DISPLAY when display is empty.
func Open(display string, logger joymouse.Logger) (*Sink, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("failed to open X11 connection")
	}

	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("XTEST extension unavailable: %w", err)
	}
	keybind.Initialize(xu)

	s := &Sink{
		xu:       xu,
		conn:     conn,
		rootWin:  xu.RootWin(),
		keycodes: make(map[uint16]xproto.Keycode),
	}
	// Resolve the bound key up front so a missing keysym shows at startup.
	if _, err := s.keycode(joymouse.KeyLeftMetaCode); err != nil {
		logger.Warn("Super key unavailable on this display", "err", err)
	}
	return s, nil
}

// WriteEvents sends the batch in order and flushes it with a round trip, so
// the events have reached the server when it returns.
func (s *Sink) WriteEvents(events ...joymouse.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("x11 sink is closed")
	}

	dirty := false
	for _, event := range events {
		var err error
		switch event.Type {
		case joymouse.EventTypeMotion:
			err = s.fake(xproto.MotionNotify, 1, event.DX, event.DY)
		case joymouse.EventTypeWarp:
			err = xproto.WarpPointerChecked(
				s.conn,
				xproto.WindowNone,
				xproto.WindowNone,
				0,
				0,
				0,
				0,
				clampInt32ToInt16(event.DX),
				clampInt32ToInt16(event.DY),
			).Check()
		case joymouse.EventTypeButton:
			button, ok := codeToXButton(event.Code)
			if !ok {
				continue
			}
			err = s.fake(pressType(event.Value, xproto.ButtonPress, xproto.ButtonRelease), button, 0, 0)
		case joymouse.EventTypeWheel:
			button, ok := wheelButton(event.Value)
			if !ok {
				continue
			}
			if err = s.fake(xproto.ButtonPress, button, 0, 0); err == nil {
				err = s.fake(xproto.ButtonRelease, button, 0, 0)
			}
		case joymouse.EventTypeKey:
			var keycode xproto.Keycode
			if keycode, err = s.keycode(event.Code); err == nil {
				err = s.fake(pressType(event.Value, xproto.KeyPress, xproto.KeyRelease), byte(keycode), 0, 0)
			}
		default:
			continue
		}
		if err != nil {
			return err
		}
		dirty = true
	}

	if dirty {
		s.conn.Sync()
	}
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.conn.Close()
	return nil
}

// fake injects one XTEST event. For MotionNotify a detail of 1 makes the
// motion relative to the current pointer position.
func (s *Sink) fake(eventType byte, detail byte, dx, dy int32) error {
	return xtest.FakeInputChecked(
		s.conn,
		eventType,
		detail,
		xproto.TimeCurrentTime,
		s.rootWin,
		clampInt32ToInt16(dx),
		clampInt32ToInt16(dy),
		0,
	).Check()
}

func (s *Sink) keycode(code uint16) (xproto.Keycode, error) {
	if keycode, ok := s.keycodes[code]; ok {
		return keycode, nil
	}

	keyName, ok := linuxCodeToXKeyString(code)
	if !ok {
		return 0, fmt.Errorf("unsupported X11 key code %s", linuxinput.FormatCodeName(code))
	}
	keycodes := keybind.StrToKeycodes(s.xu, keyName)
	if len(keycodes) == 0 {
		return 0, fmt.Errorf("failed to resolve X11 key %q", keyName)
	}
	s.keycodes[code] = keycodes[0]
	return keycodes[0], nil
}

func pressType(value int32, press, release byte) byte {
	if value != 0 {
		return press
	}
	return release
}
