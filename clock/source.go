package clock

import (
	"context"
	"sort"
	"time"
)

// TickFunc is invoked once per host frame, with the wall time of that frame.
type TickFunc func(wallNow time.Time)

// A TickSource is the host's per-frame callback mechanism. Callbacks are invoked
// sequentially, on one goroutine; there is never more than one tick in flight.
type TickSource interface {
	Register(fn TickFunc) (unregister func())
}

// Nower is implemented by tick sources that also decide what time it is. A Clock
// on such a source uses it for anchoring, so that fake sources give fake time.
type Nower interface {
	Now() time.Time
}

// {{{ registry

type registry struct {
	nextID int
	fns    map[int]TickFunc
}

func (r *registry) Register(fn TickFunc) func() {
	if r.fns == nil {
		r.fns = map[int]TickFunc{}
	}
	id := r.nextID
	r.nextID++
	r.fns[id] = fn

	return func() { delete(r.fns, id) }
}

// fire calls everything registered at the start of the tick, in registration order. A
// callback unregistered by an earlier one in the same tick is not called.
func (r *registry) fire(now time.Time) {
	ids := []int{}
	for id := range r.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if fn, exists := r.fns[id]; exists {
			fn(now)
		}
	}
}

func (r *registry) Len() int { return len(r.fns) }

// }}}
// {{{ ManualSource

// ManualSource is a deterministic tick source; time only moves when Advance is called.
type ManualSource struct {
	registry
	now time.Time
}

func NewManualSource(start time.Time) *ManualSource {
	return &ManualSource{now: start}
}

func (s *ManualSource) Now() time.Time { return s.now }

// Advance moves wall time forward by d, then delivers one tick.
func (s *ManualSource) Advance(d time.Duration) {
	s.now = s.now.Add(d)
	s.fire(s.now)
}

// Tick delivers a tick without moving time.
func (s *ManualSource) Tick() { s.fire(s.now) }

// Run advances by step until nothing is registered, or maxTicks have been delivered. It
// returns the number of ticks delivered.
func (s *ManualSource) Run(step time.Duration, maxTicks int) int {
	n := 0
	for n < maxTicks && s.Len() > 0 {
		s.Advance(step)
		n++
	}
	return n
}

// }}}
// {{{ TickerSource

// TickerSource delivers ticks from a time.Ticker, on the goroutine that calls Run. Register,
// and anything that might register or unregister, must be called before Run, from inside
// a tick, or via Post.
type TickerSource struct {
	registry
	interval time.Duration
	posted   chan func()
}

func NewTickerSource(fps int) *TickerSource {
	if fps <= 0 {
		fps = 60
	}
	return &TickerSource{
		interval: time.Second / time.Duration(fps),
		posted:   make(chan func(), 16),
	}
}

func (s *TickerSource) Now() time.Time          { return time.Now() }
func (s *TickerSource) Interval() time.Duration { return s.interval }

// Post arranges for fn to run on the Run goroutine, between ticks. Safe from any goroutine.
func (s *TickerSource) Post(fn func()) { s.posted <- fn }

// Run blocks, delivering ticks, until the context is done.
func (s *TickerSource) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.posted:
			fn()
		case now := <-ticker.C:
			s.fire(now)
		}
	}
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
