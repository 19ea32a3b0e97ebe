package joymouse

import (
	"context"
	"fmt"
	"time"
)

// Service runs the translation loop: drain the source, translate the stick
// state of the frame, emit, then wait for the next frame.
type Service struct {
	cfg     Config
	source  Source
	sink    Sink
	logger  Logger
	axes    AxisState
	buttons *Dispatcher
	right   RightStick
	pacer   *Pacer
	sleep   func(ctx context.Context, d time.Duration) bool

	outputFailures int
}

func NewService(cfg Config, source Source, sink Sink, logger Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("source is nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	right, err := NewRightStick(cfg)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:     cfg,
		source:  source,
		sink:    sink,
		logger:  logger,
		buttons: NewDispatcher(sink, logger, cfg.ClickHold),
		right:   right,
		pacer:   NewPacer(cfg.FramePeriod()),
		sleep:   sleepContext,
	}, nil
}

// Run loops until ctx is done, returning nil, or until the source reports
// that the device is gone, returning that error.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("Translation loop started",
		"right_stick", s.right.Name(),
		"hz", s.cfg.UpdateFrequency,
		"max_speed", s.cfg.MaxSpeed,
		"deadzone", s.cfg.Deadzone,
	)
	defer s.logger.Info("Translation loop stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.step(ctx); err != nil {
			return err
		}
		if !s.pacer.Wait(ctx) {
			return nil
		}
	}
}

func (s *Service) step(ctx context.Context) error {
	if err := s.drain(ctx); err != nil {
		return err
	}

	left, right := s.axes.Snapshot()
	if dx, dy, ok := Motion(left, s.cfg); ok {
		s.report(s.sink.WriteEvents(Event{Type: EventTypeMotion, DX: dx, DY: dy}))
	}
	s.emit(ctx, s.right.Frame(right))
	return nil
}

func (s *Service) drain(ctx context.Context) error {
	for i := 0; i < s.cfg.MaxDrain; i++ {
		ev, ok, err := s.source.Poll()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch ev.Kind {
		case RawAxis:
			s.axes.Update(ev.Index, ev.Value)
		case RawButton:
			s.report(s.buttons.Handle(ctx, ev))
		}
	}
	return nil
}

// emit writes warp batches as one flush and every wheel step as its own
// flush, pausing between steps so each lands as a separate notch.
func (s *Service) emit(ctx context.Context, events []Event) {
	if len(events) == 0 {
		return
	}
	if events[0].Type != EventTypeWheel {
		s.report(s.sink.WriteEvents(events...))
		return
	}
	for i, ev := range events {
		if i > 0 {
			s.sleep(ctx, s.cfg.ScrollStepPause)
		}
		s.report(s.sink.WriteEvents(ev))
	}
}

func (s *Service) report(err error) {
	if err == nil {
		if s.outputFailures > 0 {
			s.logger.Info("Output delivery recovered", "failed_writes", s.outputFailures)
			s.outputFailures = 0
		}
		return
	}
	s.outputFailures++
	if s.outputFailures == 1 {
		s.logger.Warn("Output delivery failed", "err", err)
	}
}
