//go:build linux

package linuxinput

import (
	"fmt"
	"sync"

	"joymouse/internal/core/joymouse"

	evdev "github.com/holoplot/go-evdev"
)

const uinputDeviceName = "joymouse virtual pointer"

// UinputSink delivers output through a virtual pointer device, for sessions
// without an X server such as Wayland compositors or the console.
type UinputSink struct {
	mu  sync.Mutex
	dev *evdev.InputDevice
}

func OpenUinputSink() (*UinputSink, error) {
	id := evdev.InputID{
		BusType: uint16(evdev.BUS_VIRTUAL),
		Vendor:  0x1,
		Product: 0x1,
		Version: 1,
	}
	dev, err := evdev.CreateDevice(uinputDeviceName, id, uinputCapabilities())
	if err != nil {
		return nil, fmt.Errorf("create uinput device: %w", err)
	}
	return &UinputSink{dev: dev}, nil
}

func (s *UinputSink) WriteEvents(events ...joymouse.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return fmt.Errorf("uinput device is closed")
	}
	batch := uinputEvents(events)
	for i := range batch {
		if err := s.dev.WriteOne(&batch[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *UinputSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return nil
	}
	err := s.dev.Close()
	s.dev = nil
	return err
}
