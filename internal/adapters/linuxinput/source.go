//go:build linux

package linuxinput

import (
	"fmt"
	"sort"

	"joymouse/internal/core/joymouse"

	evdev "github.com/holoplot/go-evdev"
)

// Reads attempted per Poll before reporting the device as idle.
const readsPerPoll = 64

type LossSignal interface {
	Lost() bool
}

type SourceOptions struct {
	MaxReadErrors int
	Watch         LossSignal
	Logger        joymouse.Logger
}

// GamepadSource reads a gamepad through its evdev node and reports events
// with joydev numbering and axis range, so it is interchangeable with the
// joystick device source.
type GamepadSource struct {
	dev    *evdev.InputDevice
	path   string
	name   string
	layout joydevLayout
	logger joymouse.Logger
	watch  LossSignal

	classifier joymouse.ReadClassifier
	queue      []joymouse.RawEvent
}

func OpenGamepadSource(path string, opts SourceOptions) (*GamepadSource, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	dev, err := openInputDevice(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", joymouse.ErrDeviceUnavailable, path, err)
	}

	absCodes := dev.CapableEvents(evdev.EV_ABS)
	keyCodes := dev.CapableEvents(evdev.EV_KEY)
	if !hasGamepadCapabilities(absCodes, keyCodes) {
		_ = dev.Close()
		return nil, fmt.Errorf("%w: %s does not look like a gamepad", joymouse.ErrDeviceUnavailable, path)
	}
	infos, err := dev.AbsInfos()
	if err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("%w: %s: read axis ranges: %w", joymouse.ErrDeviceUnavailable, path, err)
	}
	if err := dev.NonBlock(); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("failed to set nonblocking mode for %s: %w", path, err)
	}

	name, _ := dev.Name()
	s := &GamepadSource{
		dev:        dev,
		path:       path,
		name:       name,
		layout:     newJoydevLayout(absCodes, keyCodes, infos),
		logger:     opts.Logger,
		watch:      opts.Watch,
		classifier: joymouse.ReadClassifier{Limit: opts.MaxReadErrors},
	}
	s.queue = initialAxisEvents(s.layout, infos)
	return s, nil
}

func (s *GamepadSource) Name() string {
	return s.name
}

func (s *GamepadSource) Axes() int {
	return len(s.layout.axes)
}

func (s *GamepadSource) Buttons() int {
	return len(s.layout.buttons)
}

func (s *GamepadSource) Poll() (joymouse.RawEvent, bool, error) {
	if len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		return ev, true, nil
	}
	if s.watch != nil && s.watch.Lost() {
		return joymouse.RawEvent{}, false, fmt.Errorf("%w: %s removed", joymouse.ErrDeviceLost, s.path)
	}

	for i := 0; i < readsPerPoll; i++ {
		event, err := s.dev.ReadOne()
		if err != nil {
			if joymouse.IsWouldBlock(err) {
				return joymouse.RawEvent{}, false, nil
			}
			if lost := s.classifier.Failure(err); lost != nil {
				return joymouse.RawEvent{}, false, fmt.Errorf("%s: %w", s.path, lost)
			}
			s.logger.Debug("Transient evdev read error", "path", s.path, "err", err)
			return joymouse.RawEvent{}, false, nil
		}
		s.classifier.Success()
		if event == nil {
			continue
		}
		if ev, ok := s.layout.translate(*event); ok {
			return ev, true, nil
		}
	}
	return joymouse.RawEvent{}, false, nil
}

func (s *GamepadSource) Close() error {
	return s.dev.Close()
}

// initialAxisEvents reports the resting position of every axis, mirroring
// the initial-state burst joydev sends on open.
func initialAxisEvents(layout joydevLayout, infos map[evdev.EvCode]evdev.AbsInfo) []joymouse.RawEvent {
	codes := make([]evdev.EvCode, 0, len(layout.axes))
	for code := range layout.axes {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	events := make([]joymouse.RawEvent, 0, len(codes))
	for _, code := range codes {
		axis := layout.axes[code]
		events = append(events, joymouse.RawEvent{
			Kind:  joymouse.RawAxis,
			Index: axis.index,
			Value: axis.normalise(infos[code].Value),
			Init:  true,
		})
	}
	return events
}
