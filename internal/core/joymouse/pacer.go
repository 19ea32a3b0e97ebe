package joymouse

import (
	"context"
	"time"
)

// Pacer holds the loop to a fixed frame rate using absolute deadlines, so
// time spent working in a frame does not accumulate as drift.
type Pacer struct {
	period time.Duration
	next   time.Time
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) bool
}

func NewPacer(period time.Duration) *Pacer {
	return &Pacer{
		period: period,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Wait blocks until the next frame deadline. A loop that fell more than a
// full period behind restarts its schedule from now instead of running a
// burst of catch-up frames. It returns false once ctx is done.
func (p *Pacer) Wait(ctx context.Context) bool {
	now := p.now()
	if p.next.IsZero() {
		p.next = now
	}
	p.next = p.next.Add(p.period)

	if wait := p.next.Sub(now); wait > 0 {
		return p.sleep(ctx, wait)
	}
	if now.Sub(p.next) > p.period {
		p.next = now
	}
	return ctx.Err() == nil
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
