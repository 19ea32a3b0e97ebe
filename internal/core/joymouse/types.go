package joymouse

type EventType uint8

const (
	EventTypeMotion EventType = iota + 1
	EventTypeWarp
	EventTypeButton
	EventTypeWheel
	EventTypeKey
)

// Linux input codes used as the symbolic ids of synthetic buttons and keys.
const (
	ButtonLeftCode  uint16 = 0x110
	ButtonRightCode uint16 = 0x111
	KeyLeftMetaCode uint16 = 125
)

// Event is one synthetic output action. Motion and Warp use DX/DY, Button and
// Key use Code with Value 1 (press) or 0 (release), Wheel uses Value +1 (up)
// or -1 (down).
type Event struct {
	Type  EventType
	Code  uint16
	Value int32
	DX    int32
	DY    int32
}

type RawKind uint8

const (
	RawAxis RawKind = iota + 1
	RawButton
)

// RawEvent is a decoded hardware report. Init marks initial-state reports
// the driver sends right after the device is opened.
type RawEvent struct {
	Kind  RawKind
	Index uint8
	Value int16
	Init  bool
}

// Source yields raw gamepad events without blocking. ok is false when no
// event is currently available. A non-nil error means the device is gone.
type Source interface {
	Poll() (ev RawEvent, ok bool, err error)
	Close() error
}

// Sink delivers synthetic events to the display server. Implementations
// flush before WriteEvents returns.
type Sink interface {
	WriteEvents(events ...Event) error
	Close() error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
