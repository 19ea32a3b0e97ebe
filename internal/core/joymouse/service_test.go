package joymouse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]Event
	failErr error
	closed  bool
}

func (r *recordingSink) WriteEvents(events ...Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	batch := make([]Event, len(events))
	copy(batch, events)
	r.batches = append(r.batches, batch)
	return nil
}

func (r *recordingSink) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingSink) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, batch := range r.batches {
		out = append(out, batch...)
	}
	return out
}

func (r *recordingSink) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

type scriptedSource struct {
	events []RawEvent
	err    error
	polls  int
}

func (s *scriptedSource) Poll() (RawEvent, bool, error) {
	s.polls++
	if len(s.events) > 0 {
		ev := s.events[0]
		s.events = s.events[1:]
		return ev, true, nil
	}
	if s.err != nil {
		return RawEvent{}, false, s.err
	}
	return RawEvent{}, false, nil
}

func (s *scriptedSource) Close() error {
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type logLine struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *recordingLogger) count(level, msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if line.level == level && line.msg == msg {
			n++
		}
	}
	return n
}

func noSleep(context.Context, time.Duration) bool { return true }

func newTestService(t *testing.T, cfg Config, source Source, sink Sink) *Service {
	t.Helper()
	service, err := NewService(cfg, source, sink, noopLogger{})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	service.sleep = noSleep
	service.buttons.sleep = noSleep
	return service
}

func axis(index uint8, value int16) RawEvent {
	return RawEvent{Kind: RawAxis, Index: index, Value: value}
}

func button(index uint8, pressed bool) RawEvent {
	value := int16(0)
	if pressed {
		value = 1
	}
	return RawEvent{Kind: RawButton, Index: index, Value: value}
}

func TestNewServiceRejectsInvalidInputs(t *testing.T) {
	if _, err := NewService(DefaultConfig(), nil, &recordingSink{}, noopLogger{}); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := NewService(DefaultConfig(), &scriptedSource{}, nil, noopLogger{}); err == nil {
		t.Fatalf("expected error for nil sink")
	}
	if _, err := NewService(DefaultConfig(), &scriptedSource{}, &recordingSink{}, nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}

	cfg := DefaultConfig()
	cfg.RightStick = "joystick"
	if _, err := NewService(cfg, &scriptedSource{}, &recordingSink{}, noopLogger{}); err == nil {
		t.Fatalf("expected error for unknown right stick mode")
	}
}

func TestStepEmitsMotionFromHeldStick(t *testing.T) {
	source := &scriptedSource{events: []RawEvent{axis(AxisLeftX, 16000)}}
	sink := &recordingSink{}
	service := newTestService(t, DefaultConfig(), source, sink)

	for i := 0; i < 3; i++ {
		if err := service.step(context.Background()); err != nil {
			t.Fatalf("step() error = %v", err)
		}
	}

	events := sink.snapshot()
	if len(events) != 3 {
		t.Fatalf("expected one motion event per frame, got %d: %#v", len(events), events)
	}
	for _, ev := range events {
		if ev != (Event{Type: EventTypeMotion, DX: 3, DY: 0}) {
			t.Fatalf("unexpected motion event: %#v", ev)
		}
	}
}

func TestStepIgnoresDeadzoneAndUnknownAxes(t *testing.T) {
	source := &scriptedSource{events: []RawEvent{
		axis(AxisLeftX, 1000),
		axis(AxisLeftY, 1000),
		axis(5, 32767),
	}}
	sink := &recordingSink{}
	service := newTestService(t, DefaultConfig(), source, sink)

	if err := service.step(context.Background()); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	if events := sink.snapshot(); len(events) != 0 {
		t.Fatalf("expected no output inside deadzone, got %#v", events)
	}
}

func TestStepDrainsAllPendingEventsBeforeTranslating(t *testing.T) {
	source := &scriptedSource{events: []RawEvent{
		axis(AxisLeftX, 32767),
		axis(AxisLeftX, 0),
		axis(AxisLeftY, 32767),
	}}
	sink := &recordingSink{}
	service := newTestService(t, DefaultConfig(), source, sink)

	if err := service.step(context.Background()); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	events := sink.snapshot()
	if len(events) != 1 || events[0] != (Event{Type: EventTypeMotion, DX: 0, DY: 8}) {
		t.Fatalf("expected motion from the latest axis values only, got %#v", events)
	}
}

func TestStepDrainIsBoundedPerFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDrain = 2
	source := &scriptedSource{events: []RawEvent{
		axis(AxisLeftX, 32767),
		axis(AxisLeftX, 0),
		axis(AxisLeftY, 32767),
	}}
	sink := &recordingSink{}
	service := newTestService(t, cfg, source, sink)

	if err := service.step(context.Background()); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	if got := len(source.events); got != 1 {
		t.Fatalf("expected one event left for the next frame, got %d", got)
	}
	if events := sink.snapshot(); len(events) != 0 {
		t.Fatalf("expected no motion after first frame, got %#v", events)
	}
}

func TestStepScrollEmitsSeparateFlushesPerNotch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScrollMultiplier = 3
	source := &scriptedSource{events: []RawEvent{axis(AxisRightY, -32767)}}
	sink := &recordingSink{}
	service := newTestService(t, cfg, source, sink)

	var pauses int
	service.sleep = func(context.Context, time.Duration) bool {
		pauses++
		return true
	}

	if err := service.step(context.Background()); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	if got := sink.batchCount(); got != 3 {
		t.Fatalf("expected 3 separate wheel flushes, got %d", got)
	}
	if pauses != 2 {
		t.Fatalf("expected a pause between each wheel step, got %d pauses", pauses)
	}
	for _, ev := range sink.snapshot() {
		if ev != (Event{Type: EventTypeWheel, Value: 1}) {
			t.Fatalf("unexpected wheel event: %#v", ev)
		}
	}
}

func TestStepWarpModeEmitsWarp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RightStick = ModeWarp
	source := &scriptedSource{events: []RawEvent{axis(AxisRightX, 32767)}}
	sink := &recordingSink{}
	service := newTestService(t, cfg, source, sink)

	if err := service.step(context.Background()); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	events := sink.snapshot()
	if len(events) != 1 || events[0] != (Event{Type: EventTypeWarp, DX: 50, DY: 0}) {
		t.Fatalf("unexpected warp output: %#v", events)
	}
}

func TestStepReturnsDeviceLost(t *testing.T) {
	lost := fmt.Errorf("%w: unplugged", ErrDeviceLost)
	source := &scriptedSource{events: []RawEvent{axis(AxisLeftX, 32767)}, err: lost}
	service := newTestService(t, DefaultConfig(), source, &recordingSink{})

	err := service.step(context.Background())
	if !errors.Is(err, ErrDeviceLost) {
		t.Fatalf("step() error = %v, want ErrDeviceLost", err)
	}
}

func TestOutputFailureIsLoggedOnceAndLoopContinues(t *testing.T) {
	logger := &recordingLogger{}
	sink := &recordingSink{failErr: errors.New("display gone")}
	source := &scriptedSource{events: []RawEvent{axis(AxisLeftX, 32767)}}

	service, err := NewService(DefaultConfig(), source, sink, logger)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := service.step(context.Background()); err != nil {
			t.Fatalf("step() error = %v", err)
		}
	}
	if got := logger.count("warn", "Output delivery failed"); got != 1 {
		t.Fatalf("expected one warning for a run of failures, got %d", got)
	}

	sink.mu.Lock()
	sink.failErr = nil
	sink.mu.Unlock()
	if err := service.step(context.Background()); err != nil {
		t.Fatalf("step() error = %v", err)
	}
	if got := logger.count("info", "Output delivery recovered"); got != 1 {
		t.Fatalf("expected recovery to be logged, got %d", got)
	}
	if got := len(sink.snapshot()); got != 1 {
		t.Fatalf("expected output to resume, got %d events", got)
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	source := &scriptedSource{}
	service := newTestService(t, DefaultConfig(), source, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- service.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for Run to stop")
	}
}

func TestRunReturnsErrorWhenDeviceLost(t *testing.T) {
	source := &scriptedSource{err: ErrDeviceLost}
	service := newTestService(t, DefaultConfig(), source, &recordingSink{})

	done := make(chan error, 1)
	go func() {
		done <- service.Run(context.Background())
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrDeviceLost) {
			t.Fatalf("Run() error = %v, want ErrDeviceLost", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for Run to fail")
	}
}
