// Package clock maps elapsed wall-clock time onto virtual playback time.
package clock

import (
	"log"
	"time"

	rr "github.com/skypies/routereplay"
)

type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "idle"
}

// A Clock accumulates virtual time, scaled by a speed multiplier, while it is running. It
// knows nothing of tracks; each tick it hands the new virtual time to its onTick func.
type Clock struct {
	source TickSource
	now    func() time.Time
	logger *log.Logger

	state     State
	destroyed bool

	lastTick   time.Time
	virtualMs  float64
	speed      float64
	onTick     func(virtualMs float64)
	unregister func()
}

type Option func(*Clock)

// WithNow overrides the source of wall time used for anchoring.
func WithNow(now func() time.Time) Option { return func(c *Clock) { c.now = now } }
func WithLogger(l *log.Logger) Option     { return func(c *Clock) { c.logger = l } }

// WithSpeed sets the initial speed; non-positive values fall back to 1.
func WithSpeed(multiplier float64) Option {
	return func(c *Clock) {
		if multiplier <= 0 {
			c.logger.Printf("clock: speed must be positive, using 1 (not %v)", multiplier)
			multiplier = 1
		}
		c.speed = multiplier
	}
}

func New(source TickSource, opts ...Option) *Clock {
	c := &Clock{
		source: source,
		now:    time.Now,
		logger: log.Default(),
		speed:  1,
	}
	if n, ok := source.(Nower); ok {
		c.now = n.Now
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Clock) State() State         { return c.state }
func (c *Clock) IsRunning() bool      { return c.state == Running }
func (c *Clock) IsPaused() bool       { return c.state != Running }
func (c *Clock) CurrentTime() float64 { return c.virtualMs }
func (c *Clock) Speed() float64       { return c.speed }
func (c *Clock) Destroyed() bool      { return c.destroyed }

// Start begins (or resumes) accumulating virtual time, calling onTick every tick. It
// is a no-op if the clock is already running, or has been destroyed.
func (c *Clock) Start(onTick func(virtualMs float64)) {
	if c.state == Running || c.destroyed {
		return
	}
	c.onTick = onTick
	c.lastTick = c.now()
	c.state = Running
	c.unregister = c.source.Register(c.tick)
}

// Pause stops accumulating virtual time, keeping the current value.
func (c *Clock) Pause() {
	if c.state != Running {
		return
	}
	c.state = Paused
	if c.unregister != nil {
		c.unregister()
		c.unregister = nil
	}
}

// Stop pauses, resets virtual time to zero, and forgets the onTick func.
func (c *Clock) Stop() {
	c.Pause()
	c.state = Idle
	c.virtualMs = 0
	c.onTick = nil
}

// Destroy stops the clock for good; Start will never register with the source again.
func (c *Clock) Destroy() {
	c.Stop()
	c.destroyed = true
}

// SetSpeed changes the multiplier. If running, the change takes effect from now,
// without a jump in virtual time.
func (c *Clock) SetSpeed(multiplier float64) error {
	if multiplier <= 0 {
		return &rr.ConfigurationError{Field: "speed", Value: multiplier}
	}
	if c.speed == multiplier {
		return nil
	}
	c.speed = multiplier
	if c.state == Running {
		c.lastTick = c.now()
	}
	return nil
}

// SetCurrentTime moves virtual time (clamped at zero). If running, the next tick
// advances from here, rather than compensating for the move.
func (c *Clock) SetCurrentTime(ms float64) {
	if ms < 0 {
		ms = 0
	}
	c.virtualMs = ms
	if c.state == Running {
		c.lastTick = c.now()
	}
}

func (c *Clock) tick(wallNow time.Time) {
	if c.state != Running {
		return
	}
	wallDelta := wallNow.Sub(c.lastTick)
	c.lastTick = wallNow

	c.virtualMs += float64(wallDelta) / float64(time.Millisecond) * c.speed

	if c.onTick != nil {
		c.onTick(c.virtualMs)
	}
}
