// Package timeline coordinates the playback of a route: it owns the tracks, drives a
// clock, and pushes interpolated positions out to renderers, a camera and observers.
package timeline

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/skypies/geo"

	rr "github.com/skypies/routereplay"
	"github.com/skypies/routereplay/clock"
)

type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Options configure a Player. The zero value is usable: no rendering, no camera, speed 1,
// autofit on, headings from DefaultBearing.
type Options struct {
	Renderer Renderer
	Paths    PathRenderer // if nil, and the Renderer is also a PathRenderer, that is used
	Camera   Camera

	CameraMode    CameraMode     // blank means CameraCenter when there is a Camera
	CameraOptions *CameraOptions // nil means DefaultCameraOptions

	Bearing   rr.BearingFunc // nil means rr.DefaultBearing
	NoBearing bool           // never derive headings from positions
	Speed     float64        // zero means 1
	NoAutoFit bool

	Logger *log.Logger

	// Route, if set, is loaded at construction time. Observers added after New will
	// have missed its initial seek (or error) event.
	Route rr.RouteInput
}

type trackEntry struct {
	rr.NamedTrack
	lastPath *geo.Latlong // most recent point handed to AddPathPoint / SetPath
}

// A Player is the timeline coordinator. It is not safe for concurrent use; drive it from
// the same goroutine as its tick source (see clock.TickerSource.Post).
type Player struct {
	id     string
	logger *log.Logger

	renderer Renderer
	paths    PathRenderer
	camera   follower
	autoFit  bool
	interp   rr.Interpolator
	clock    *clock.Clock
	events   Events

	lastInput   rr.RouteInput
	route       *rr.Route
	tracks      map[string]*trackEntry
	order       []string // track ids, sorted; order[0] leads the camera
	global      rr.TimeWindow
	currentMs   float64
	initialized bool
	finished    bool
	destroyed   bool

	// gen changes whenever the timeline is moved out from under a tick in progress (a new
	// route, a seek, a stop, destroy), so a tick interrupted by its own listeners can bail.
	gen int
}

func New(src clock.TickSource, opts Options) *Player {
	p := &Player{
		id:       uuid.NewString()[:8],
		logger:   opts.Logger,
		renderer: opts.Renderer,
		paths:    opts.Paths,
		autoFit:  !opts.NoAutoFit,
		interp:   rr.Interpolator{Bearing: opts.Bearing},
		tracks:   map[string]*trackEntry{},
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	if p.paths == nil {
		if pr, ok := opts.Renderer.(PathRenderer); ok {
			p.paths = pr
		}
	}
	if p.interp.Bearing == nil {
		p.interp.Bearing = rr.DefaultBearing
	}
	if opts.NoBearing {
		p.interp.Bearing = nil
	}

	p.camera = follower{cam: opts.Camera, mode: opts.CameraMode, opts: DefaultCameraOptions}
	if p.camera.mode == "" && opts.Camera != nil {
		p.camera.mode = CameraCenter
	}
	if opts.CameraOptions != nil {
		p.camera.opts = *opts.CameraOptions
	}

	speed := opts.Speed
	if speed == 0 {
		speed = 1
	}
	p.clock = clock.New(src, clock.WithLogger(p.logger), clock.WithSpeed(speed))

	if opts.Route != nil {
		p.SetRoute(opts.Route)
	}
	return p
}

func (p *Player) logf(format string, args ...interface{}) {
	p.logger.Printf("[player %s] %s", p.id, fmt.Sprintf(format, args...))
}

func (p *Player) ID() string        { return p.id }
func (p *Player) Events() *Events   { return &p.events }
func (p *Player) Initialized() bool { return p.initialized }
func (p *Player) emit(e Event)      { p.events.emit(e) }
func (p *Player) fail(err error)    { p.emit(ErrorEvent{Err: err}) }

// {{{ Queries

func (p *Player) DurationMs() int64           { return p.global.DurationMs }
func (p *Player) CurrentTimeMs() float64      { return p.currentMs }
func (p *Player) IsPlaying() bool             { return p.clock.IsRunning() }
func (p *Player) Speed() float64              { return p.clock.Speed() }
func (p *Player) GlobalWindow() rr.TimeWindow { return p.global }
func (p *Player) Route() *rr.Route            { return p.route }

// TrackIDs returns the ids of the loaded tracks, in sorted order.
func (p *Player) TrackIDs() []string { return append([]string{}, p.order...) }

func (p *Player) Window(trackID string) (rr.TimeWindow, bool) {
	if e, exists := p.tracks[trackID]; exists {
		return e.Window, true
	}
	return rr.TimeWindow{}, false
}

// }}}
// {{{ SetRoute

// SetRoute validates and loads new route data, replacing any previous route. Playback
// stops, markers and paths are reset, and the tracks are drawn at the global start. If the
// input is rejected an error event is emitted, and the previous route (if any) remains.
func (p *Player) SetRoute(in rr.RouteInput) {
	if p.destroyed {
		return
	}
	p.lastInput = in

	route, err := rr.NormalizeRoute(in)
	if err != nil {
		p.logf("route rejected: %v", err)
		p.fail(err)
		return
	}
	for _, s := range route.Skipped {
		p.logf("skipping track %q: %s", s.ID, s.Reason)
	}
	if route.Dropped > 0 {
		p.logf("dropped %d unusable points", route.Dropped)
	}

	p.gen++
	p.clock.Stop()
	p.clearRenderers()

	p.route = route
	p.tracks = map[string]*trackEntry{}
	p.order = nil
	for _, nt := range route.Tracks {
		p.tracks[nt.ID] = &trackEntry{NamedTrack: nt}
		p.order = append(p.order, nt.ID)
	}
	p.global = route.Window
	p.currentMs = 0
	p.finished = false
	p.camera.reset()
	p.initialized = true

	abs := float64(p.global.StartMs)
	lead := p.renderAt(abs, false)
	if p.autoFit && p.camera.cam != nil {
		p.camera.cam.FitBounds(route.Bounds())
	} else {
		p.camera.follow(lead, abs, true)
	}

	p.logf("loaded %s", route)
	p.emit(SeekEvent{TimeMs: 0})
}

// }}}
// {{{ Play, Pause, Stop, Seek

// Play starts playback from the current time. If playback had reached the end, it
// restarts from the beginning. If the route was never successfully loaded, the last
// input given to SetRoute is retried first.
func (p *Player) Play() {
	if p.destroyed {
		return
	}
	if !p.initialized {
		if p.lastInput == nil {
			return
		}
		p.SetRoute(p.lastInput)
		if !p.initialized {
			return
		}
	}
	if p.global.DurationMs <= 0 {
		p.logf("play: route has zero duration, nothing to animate")
		return
	}
	if p.clock.IsRunning() {
		return
	}
	if p.currentMs >= float64(p.global.DurationMs) {
		p.Seek(0)
		if p.destroyed || !p.initialized {
			return
		}
	}

	p.finished = false
	p.clock.Start(p.onTick)
	p.emit(StartEvent{})
}

func (p *Player) Pause() {
	if !p.initialized {
		return
	}
	p.clock.Pause()
	p.emit(PauseEvent{})
}

// Stop halts playback and rewinds to the global start, clearing all paths.
func (p *Player) Stop() {
	if !p.initialized {
		return
	}
	p.gen++
	p.clock.Stop()
	p.currentMs = 0
	p.finished = false

	abs := float64(p.global.StartMs)
	lead := p.renderAt(abs, false)
	p.camera.follow(lead, abs, true)
	p.resetPaths()

	p.emit(SeekEvent{TimeMs: 0})
	p.emit(PauseEvent{})
}

// Seek jumps to timeMs (relative to the global start, clamped to the route's duration).
// It doesn't change whether playback is running. Each track's path is rebuilt to show
// exactly where it has been by then, and a frame event is emitted per track.
func (p *Player) Seek(timeMs float64) {
	if !p.initialized {
		return
	}
	p.gen++
	gen := p.gen
	c := clamp(timeMs, 0, float64(p.global.DurationMs))
	p.clock.SetCurrentTime(c)
	p.currentMs = c
	p.finished = false

	abs := float64(p.global.StartMs) + c
	lead := p.renderAt(abs, true)
	if p.gen != gen || p.destroyed {
		return // a frame listener moved the timeline on
	}
	p.camera.follow(lead, abs, true)
	p.seekPaths(abs)

	p.emit(SeekEvent{TimeMs: c})
}

// }}}
// {{{ SetSpeed, SetDirection, SetCameraMode, Destroy

// SetSpeed changes the playback multiplier; invalid values are logged and ignored.
func (p *Player) SetSpeed(multiplier float64) {
	if !p.initialized {
		return
	}
	if err := p.clock.SetSpeed(multiplier); err != nil {
		p.logf("setSpeed: %v", err)
	}
}

// SetDirection only supports Forward; asking for anything else emits an error event.
func (p *Player) SetDirection(d Direction) {
	if !p.initialized {
		return
	}
	if d != Forward {
		p.fail(&rr.ConfigurationError{Field: "direction", Value: d.String()})
	}
}

// SetCameraMode switches camera behavior, and immediately moves the camera to suit. A nil
// opts keeps the current camera options.
func (p *Player) SetCameraMode(mode CameraMode, opts *CameraOptions) {
	if !p.initialized {
		return
	}
	p.camera.mode = mode
	if opts != nil {
		p.camera.opts = *opts
	}
	if len(p.order) == 0 {
		return
	}
	abs := float64(p.global.StartMs) + p.currentMs
	lead, err := p.pointAt(p.tracks[p.order[0]], abs)
	if err != nil {
		p.logf("camera: %v", err)
	}
	p.camera.follow(lead, abs, true)
}

// Destroy stops everything, clears the renderers and drops all observers. The Player
// ignores every call afterwards.
func (p *Player) Destroy() {
	if p.destroyed {
		return
	}
	p.gen++
	p.clock.Destroy()
	p.clearRenderers()
	p.events.clear()
	p.tracks = map[string]*trackEntry{}
	p.order = nil
	p.route = nil
	p.lastInput = nil
	p.initialized = false
	p.destroyed = true
	p.logf("destroyed")
}

// }}}
// {{{ onTick, finish

func (p *Player) onTick(virtualMs float64) {
	if !p.initialized || p.destroyed {
		return
	}
	gen := p.gen
	duration := float64(p.global.DurationMs)
	c := clamp(virtualMs, 0, duration)
	p.currentMs = c
	abs := float64(p.global.StartMs) + c

	var lead *rr.InterpolatedPoint
	for i, id := range p.order {
		e := p.tracks[id]
		if e == nil {
			continue
		}
		ip, err := p.pointAt(e, abs)
		if err != nil {
			p.logf("tick: %v", err)
			p.removeMarker(id)
			continue
		}
		if i == 0 {
			lead = ip
		}
		p.updateMarker(id, ip)
		if abs > float64(p.global.StartMs) {
			p.growPath(e, ip)
		}
		p.emit(FrameEvent{TrackID: id, Pos: ip.Latlong(), Heading: ip.Heading, Progress: ip.Progress})
		if p.gen != gen || p.destroyed {
			return
		}
	}
	p.camera.follow(lead, abs, false)

	if virtualMs >= duration && !p.finished {
		p.finish()
	}
}

// finish pauses at the end of the route. The last tick was clamped to the global end, so
// every marker already sits on its track's final point.
func (p *Player) finish() {
	p.finished = true
	p.clock.Pause()
	p.logf("finished after %dms", p.global.DurationMs)
	p.emit(FinishEvent{})
}

// }}}
// {{{ rendering helpers

// pointAt interpolates a track; a nil point without an error never happens for a loaded track.
func (p *Player) pointAt(e *trackEntry, abs float64) (*rr.InterpolatedPoint, error) {
	ip, err := p.interp.At(e.Track, abs, e.Window)
	var ie *rr.InterpolationError
	if errors.As(err, &ie) {
		ie.TrackID = e.ID
	}
	if err == nil && ip == nil {
		err = &rr.InterpolationError{TrackID: e.ID, TimeMs: abs}
	}
	return ip, err
}

// renderAt moves every marker to its position at abs, optionally emitting frames. It
// returns the lead track's point (nil if that failed).
func (p *Player) renderAt(abs float64, frames bool) *rr.InterpolatedPoint {
	gen := p.gen
	var lead *rr.InterpolatedPoint
	for i, id := range p.order {
		e := p.tracks[id]
		if e == nil {
			continue
		}
		ip, err := p.pointAt(e, abs)
		if err != nil {
			p.logf("render: %v", err)
			p.removeMarker(id)
			continue
		}
		if i == 0 {
			lead = ip
		}
		p.updateMarker(id, ip)
		if frames {
			p.emit(FrameEvent{TrackID: id, Pos: ip.Latlong(), Heading: ip.Heading, Progress: ip.Progress})
			if p.gen != gen || p.destroyed {
				return lead
			}
		}
	}
	return lead
}

func (p *Player) updateMarker(id string, ip *rr.InterpolatedPoint) {
	if p.renderer != nil {
		p.renderer.UpdateMarker(id, ip.Latlong(), ip.Heading)
	}
}

func (p *Player) removeMarker(id string) {
	if p.renderer != nil {
		p.renderer.RemoveMarker(id)
	}
}

func (p *Player) clearRenderers() {
	if p.renderer != nil {
		p.renderer.RemoveAllMarkers()
	}
	p.resetPaths()
}

func (p *Player) resetPaths() {
	for _, e := range p.tracks {
		e.lastPath = nil
	}
	if p.paths != nil {
		p.paths.ResetAllPaths()
	}
}

// growPath extends the trail, unless the track hasn't moved since the last point.
func (p *Player) growPath(e *trackEntry, ip *rr.InterpolatedPoint) {
	if p.paths == nil {
		return
	}
	pos := ip.Latlong()
	if e.lastPath != nil && samePlace(*e.lastPath, pos) {
		return
	}
	p.paths.AddPathPoint(e.ID, pos)
	e.lastPath = &pos
}

func (p *Player) seekPaths(abs float64) {
	if p.paths == nil {
		return
	}
	for _, id := range p.order {
		e := p.tracks[id]
		if e == nil {
			continue
		}
		ip, err := p.pointAt(e, abs)
		if err != nil {
			p.logf("seek path: %v", err)
		}
		path := SeekPath(e.Track, e.Window, abs, ip)
		p.paths.SetPath(id, path)
		e.lastPath = nil
		if len(path) > 0 {
			last := path[len(path)-1]
			e.lastPath = &last
		}
	}
}

// }}}
// {{{ SeekPath

// SeekPath is the trail of a track as it should look at time abs: every original point up
// to abs, then the interpolated position if it is strictly later and somewhere new. Before
// the track starts it is empty. A single point is doubled up, so renderers that need two
// points to draw a line still have something to show.
func SeekPath(t rr.Track, w rr.TimeWindow, abs float64, at *rr.InterpolatedPoint) []geo.Latlong {
	path := []geo.Latlong{}
	if abs < float64(w.StartMs) {
		return path
	}

	orig := t.UpTo(abs)
	for _, rp := range orig {
		path = append(path, rp.Latlong())
	}

	if at != nil {
		pos := at.Latlong()
		lastT := math.Inf(-1)
		if len(orig) > 0 {
			lastT = float64(orig[len(orig)-1].T)
		}
		if abs > lastT && (len(path) == 0 || !samePlace(path[len(path)-1], pos)) {
			path = append(path, pos)
		}
	}

	if len(path) == 1 {
		path = append(path, path[0])
	}
	return path
}

// }}}

func samePlace(a, b geo.Latlong) bool { return a.Lat == b.Lat && a.Long == b.Long }

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
