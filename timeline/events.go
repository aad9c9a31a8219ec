package timeline

import (
	"fmt"
	"sort"

	"github.com/skypies/geo"
)

type Kind int

const (
	KindStart Kind = iota
	KindPause
	KindSeek
	KindFrame
	KindFinish
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindPause:
		return "pause"
	case KindSeek:
		return "seek"
	case KindFrame:
		return "frame"
	case KindFinish:
		return "finish"
	case KindError:
		return "error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is one of StartEvent, PauseEvent, SeekEvent, FrameEvent, FinishEvent, ErrorEvent.
type Event interface {
	Kind() Kind
}

type StartEvent struct{}
type PauseEvent struct{}
type FinishEvent struct{}

// SeekEvent carries the (clamped) playback time, relative to the global start.
type SeekEvent struct {
	TimeMs float64
}

// FrameEvent is emitted once per track per tick.
type FrameEvent struct {
	TrackID  string
	Pos      geo.Latlong
	Heading  *float64
	Progress float64 // relative to the track's own window
}

type ErrorEvent struct {
	Err error
}

func (StartEvent) Kind() Kind  { return KindStart }
func (PauseEvent) Kind() Kind  { return KindPause }
func (SeekEvent) Kind() Kind   { return KindSeek }
func (FrameEvent) Kind() Kind  { return KindFrame }
func (FinishEvent) Kind() Kind { return KindFinish }
func (ErrorEvent) Kind() Kind  { return KindError }

func (e FrameEvent) String() string {
	str := fmt.Sprintf("frame[%s] %s %3.0f%%", e.TrackID, e.Pos, e.Progress*100)
	if e.Heading != nil {
		str += fmt.Sprintf(" %.0fdeg", *e.Heading)
	}
	return str
}

// {{{ Observers

// Observers is a registry of callbacks for one kind of event.
type Observers[E any] struct {
	nextID int
	fns    map[int]func(E)
}

// Add registers fn, and returns a func that removes it again.
func (o *Observers[E]) Add(fn func(E)) (remove func()) {
	if o.fns == nil {
		o.fns = map[int]func(E){}
	}
	id := o.nextID
	o.nextID++
	o.fns[id] = fn
	return func() { delete(o.fns, id) }
}

func (o *Observers[E]) Len() int { return len(o.fns) }

// emit calls observers in the order they were added. Observers may add or remove
// observers (or issue playback commands) from inside the callback.
func (o *Observers[E]) emit(e E) {
	ids := []int{}
	for id := range o.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, exists := o.fns[id]; exists {
			fn(e)
		}
	}
}

func (o *Observers[E]) clear() { o.fns = nil }

// }}}
// {{{ Events

// Events holds one registry per event kind, plus Any, which sees everything.
type Events struct {
	Start  Observers[StartEvent]
	Pause  Observers[PauseEvent]
	Seek   Observers[SeekEvent]
	Frame  Observers[FrameEvent]
	Finish Observers[FinishEvent]
	Error  Observers[ErrorEvent]
	Any    Observers[Event]
}

func (ev *Events) emit(e Event) {
	switch v := e.(type) {
	case StartEvent:
		ev.Start.emit(v)
	case PauseEvent:
		ev.Pause.emit(v)
	case SeekEvent:
		ev.Seek.emit(v)
	case FrameEvent:
		ev.Frame.emit(v)
	case FinishEvent:
		ev.Finish.emit(v)
	case ErrorEvent:
		ev.Error.emit(v)
	}
	ev.Any.emit(e)
}

func (ev *Events) clear() {
	ev.Start.clear()
	ev.Pause.clear()
	ev.Seek.clear()
	ev.Frame.clear()
	ev.Finish.clear()
	ev.Error.clear()
	ev.Any.clear()
}

// }}}
