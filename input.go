package routereplay

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// MainTrackID names the only track of a SingleTrack route.
const MainTrackID = "main"

var validate = validator.New()

// RouteInput is either a SingleTrack or a MultiTrack.
type RouteInput interface {
	isRouteInput()
}

// SingleTrack is one unnamed sequence of points; it becomes the track MainTrackID.
type SingleTrack []RoutePoint

// MultiTrack maps track ids to their points. Tracks are iterated in sorted id order.
type MultiTrack map[string][]RoutePoint

func (SingleTrack) isRouteInput() {}
func (MultiTrack) isRouteInput()  {}

// NamedTrack is a normalized track, owning its window alongside its points.
type NamedTrack struct {
	ID     string
	Track  Track
	Window TimeWindow
}

// SkippedTrack records a track of a MultiTrack that was dropped during normalization.
type SkippedTrack struct {
	ID     string
	Reason string
}

// Route is validated, sorted input, ready to play.
type Route struct {
	Tracks  []NamedTrack
	Window  TimeWindow // global
	Multi   bool
	Skipped []SkippedTrack
	Dropped int // points that failed validation, or were duplicates
}

// NormalizeRoute validates route input, drops unusable points, sorts each track by time,
// and computes all the windows. Invalid tracks of a multi-track route are skipped, as
// long as at least one valid track remains.
func NormalizeRoute(in RouteInput) (*Route, error) {
	r := &Route{}

	switch v := in.(type) {
	case nil:
		return nil, &ValidationError{Reason: "no route input"}

	case SingleTrack:
		if v == nil {
			return nil, &ValidationError{Reason: "no route input"}
		}
		t, dropped := cleanTrack(v)
		r.Dropped += dropped
		if len(t) < 2 {
			return nil, &ValidationError{TrackID: MainTrackID, Reason: "single track needs at least two points"}
		}
		r.Tracks = append(r.Tracks, NamedTrack{ID: MainTrackID, Track: t, Window: t.Window()})

	case MultiTrack:
		r.Multi = true
		if len(v) == 0 {
			return nil, &ValidationError{Reason: "multi-track route cannot be empty"}
		}
		ids := []string{}
		for id := range v {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			t, dropped := cleanTrack(v[id])
			r.Dropped += dropped
			if len(t) < 2 {
				r.Skipped = append(r.Skipped, SkippedTrack{id,
					fmt.Sprintf("needs at least two points, has %d usable", len(t))})
				continue
			}
			r.Tracks = append(r.Tracks, NamedTrack{ID: id, Track: t, Window: t.Window()})
		}
		if len(r.Tracks) == 0 {
			return nil, &ValidationError{Reason: "no valid tracks found"}
		}

	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported route input %T", in)}
	}

	windows := []TimeWindow{}
	for _, nt := range r.Tracks {
		windows = append(windows, nt.Window)
	}
	r.Window = GlobalWindow(windows...)

	return r, nil
}

// cleanTrack drops invalid points, sorts, and removes exact duplicates (same t and position).
func cleanTrack(pts []RoutePoint) (Track, int) {
	valid := Track{}
	for _, p := range pts {
		if err := validate.Struct(p); err != nil {
			continue
		}
		valid = append(valid, p)
	}
	sorted := valid.Sorted()

	ret := Track{}
	for _, p := range sorted {
		dup := false
		for j := len(ret) - 1; j >= 0 && ret[j].T == p.T; j-- {
			if ret[j].SamePlace(p) {
				dup = true
				break
			}
		}
		if !dup {
			ret = append(ret, p)
		}
	}

	return ret, len(pts) - len(ret)
}

// Track returns the normalized track with the given id.
func (r *Route) Track(id string) (NamedTrack, bool) {
	for _, nt := range r.Tracks {
		if nt.ID == id {
			return nt, true
		}
	}
	return NamedTrack{}, false
}

// IDs lists the track ids in playback order.
func (r *Route) IDs() []string {
	ids := []string{}
	for _, nt := range r.Tracks {
		ids = append(ids, nt.ID)
	}
	return ids
}
