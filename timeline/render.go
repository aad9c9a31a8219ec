package timeline

import (
	"fmt"

	"github.com/skypies/geo"
)

// Renderer draws one marker per track.
type Renderer interface {
	UpdateMarker(trackID string, pos geo.Latlong, heading *float64)
	RemoveMarker(trackID string)
	RemoveAllMarkers()
}

// PathRenderer draws the trail each track leaves behind it.
type PathRenderer interface {
	AddPathPoint(trackID string, pos geo.Latlong)
	SetPath(trackID string, path []geo.Latlong)
	ResetPath(trackID string)
	ResetAllPaths()
}

type CameraView struct {
	Center  geo.Latlong
	Heading float64
	Tilt    float64
	Zoom    float64
}

func (v CameraView) String() string {
	return fmt.Sprintf("%s hdg=%.0f tilt=%.0f zoom=%.1f", v.Center, v.Heading, v.Tilt, v.Zoom)
}

// Camera is the map view. All of it is optional; a nil Camera means the view never moves.
type Camera interface {
	PanTo(pos geo.Latlong)
	MoveCamera(v CameraView)
	FitBounds(box geo.LatlongBox)
}

// {{{ MultiRenderer

// MultiRenderer fans every call out to each of its renderers. Path calls only go to
// those renderers that are also PathRenderers.
type MultiRenderer []Renderer

func (m MultiRenderer) UpdateMarker(id string, pos geo.Latlong, heading *float64) {
	for _, r := range m {
		r.UpdateMarker(id, pos, heading)
	}
}
func (m MultiRenderer) RemoveMarker(id string) {
	for _, r := range m {
		r.RemoveMarker(id)
	}
}
func (m MultiRenderer) RemoveAllMarkers() {
	for _, r := range m {
		r.RemoveAllMarkers()
	}
}

func (m MultiRenderer) paths(f func(PathRenderer)) {
	for _, r := range m {
		if pr, ok := r.(PathRenderer); ok {
			f(pr)
		}
	}
}

func (m MultiRenderer) AddPathPoint(id string, pos geo.Latlong) {
	m.paths(func(pr PathRenderer) { pr.AddPathPoint(id, pos) })
}
func (m MultiRenderer) SetPath(id string, path []geo.Latlong) {
	m.paths(func(pr PathRenderer) { pr.SetPath(id, path) })
}
func (m MultiRenderer) ResetPath(id string) {
	m.paths(func(pr PathRenderer) { pr.ResetPath(id) })
}
func (m MultiRenderer) ResetAllPaths() {
	m.paths(func(pr PathRenderer) { pr.ResetAllPaths() })
}

// }}}
// {{{ Recorder

type Marker struct {
	Pos     geo.Latlong
	Heading *float64
}

// Recorder is a Renderer, PathRenderer and Camera that just remembers what it was told.
type Recorder struct {
	Markers map[string]Marker
	Paths   map[string][]geo.Latlong
	Calls   []string

	Pans  []geo.Latlong
	Views []CameraView
	Fits  []geo.LatlongBox
}

func NewRecorder() *Recorder {
	return &Recorder{
		Markers: map[string]Marker{},
		Paths:   map[string][]geo.Latlong{},
	}
}

func (r *Recorder) logf(format string, args ...interface{}) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) UpdateMarker(id string, pos geo.Latlong, heading *float64) {
	r.Markers[id] = Marker{pos, heading}
	r.logf("marker %s", id)
}
func (r *Recorder) RemoveMarker(id string) {
	delete(r.Markers, id)
	r.logf("remove %s", id)
}
func (r *Recorder) RemoveAllMarkers() {
	r.Markers = map[string]Marker{}
	r.logf("remove *")
}

func (r *Recorder) AddPathPoint(id string, pos geo.Latlong) {
	r.Paths[id] = append(r.Paths[id], pos)
	r.logf("addpath %s", id)
}
func (r *Recorder) SetPath(id string, path []geo.Latlong) {
	r.Paths[id] = append([]geo.Latlong{}, path...)
	r.logf("setpath %s %d", id, len(path))
}
func (r *Recorder) ResetPath(id string) {
	delete(r.Paths, id)
	r.logf("resetpath %s", id)
}
func (r *Recorder) ResetAllPaths() {
	r.Paths = map[string][]geo.Latlong{}
	r.logf("resetpath *")
}

func (r *Recorder) PanTo(pos geo.Latlong)        { r.Pans = append(r.Pans, pos) }
func (r *Recorder) MoveCamera(v CameraView)      { r.Views = append(r.Views, v) }
func (r *Recorder) FitBounds(box geo.LatlongBox) { r.Fits = append(r.Fits, box) }

// }}}
