package joydev

import (
	"encoding/binary"
	"fmt"
	"io"

	"joymouse/internal/core/joymouse"
)

// Size of one struct js_event.
const recordSize = 8

const (
	eventButton = 0x01
	eventAxis   = 0x02
	eventInit   = 0x80
)

const readBatch = 64

type DeviceInfo struct {
	Path    string
	Name    string
	Axes    uint8
	Buttons uint8
	Version uint32
}

// LossSignal reports that the device node went away out of band.
type LossSignal interface {
	Lost() bool
}

type Options struct {
	MaxReadErrors int
	Watch         LossSignal
	Logger        joymouse.Logger
}

// Source reads js_event records from a joystick device opened in
// non-blocking mode. Records split across reads are completed by the next
// read.
type Source struct {
	info   DeviceInfo
	read   func(p []byte) (int, error)
	close  func() error
	logger joymouse.Logger
	watch  LossSignal

	classifier joymouse.ReadClassifier
	buf        [recordSize * readBatch]byte
	carry      int
	queue      []joymouse.RawEvent
}

func newSource(info DeviceInfo, read func([]byte) (int, error), closeFn func() error, opts Options) *Source {
	return &Source{
		info:       info,
		read:       read,
		close:      closeFn,
		logger:     opts.Logger,
		watch:      opts.Watch,
		classifier: joymouse.ReadClassifier{Limit: opts.MaxReadErrors},
		queue:      make([]joymouse.RawEvent, 0, readBatch),
	}
}

func (s *Source) Info() DeviceInfo {
	return s.info
}

func (s *Source) Poll() (joymouse.RawEvent, bool, error) {
	if ev, ok := s.pop(); ok {
		return ev, true, nil
	}
	if s.watch != nil && s.watch.Lost() {
		return joymouse.RawEvent{}, false, fmt.Errorf("%w: %s removed", joymouse.ErrDeviceLost, s.info.Path)
	}
	if err := s.fill(); err != nil {
		return joymouse.RawEvent{}, false, err
	}
	ev, ok := s.pop()
	return ev, ok, nil
}

func (s *Source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (s *Source) pop() (joymouse.RawEvent, bool) {
	if len(s.queue) == 0 {
		return joymouse.RawEvent{}, false
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	if len(s.queue) == 0 {
		s.queue = s.queue[:0:cap(s.queue)]
	}
	return ev, true
}

// fill performs one read and queues every complete record it yields.
func (s *Source) fill() error {
	n, err := s.read(s.buf[s.carry:])
	if err != nil {
		if joymouse.IsWouldBlock(err) {
			return nil
		}
		return s.failure(err)
	}
	if n <= 0 {
		return s.failure(io.EOF)
	}
	s.classifier.Success()

	total := s.carry + n
	whole := total - total%recordSize
	for off := 0; off < whole; off += recordSize {
		if ev, ok := decodeRecord(s.buf[off : off+recordSize]); ok {
			s.queue = append(s.queue, ev)
		} else if s.logger != nil {
			s.logger.Debug("Dropped malformed joystick record", "type", s.buf[off+6], "number", s.buf[off+7])
		}
	}
	s.carry = copy(s.buf[:], s.buf[whole:total])
	return nil
}

func (s *Source) failure(err error) error {
	if lost := s.classifier.Failure(err); lost != nil {
		return fmt.Errorf("%s: %w", s.info.Path, lost)
	}
	if s.logger != nil {
		s.logger.Debug("Transient joystick read error", "path", s.info.Path, "err", err)
	}
	return nil
}

// decodeRecord parses one little-endian js_event:
// u32 time, s16 value, u8 type, u8 number.
func decodeRecord(b []byte) (joymouse.RawEvent, bool) {
	if len(b) < recordSize {
		return joymouse.RawEvent{}, false
	}
	value := int16(binary.LittleEndian.Uint16(b[4:6]))
	kind := b[6]
	ev := joymouse.RawEvent{
		Index: b[7],
		Value: value,
		Init:  kind&eventInit != 0,
	}
	switch kind &^ eventInit {
	case eventAxis:
		ev.Kind = joymouse.RawAxis
	case eventButton:
		ev.Kind = joymouse.RawButton
	default:
		return joymouse.RawEvent{}, false
	}
	return ev, true
}
