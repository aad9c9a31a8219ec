package routereplay

import (
	"fmt"
	"sort"

	gogeo "github.com/paulmach/go.geo"
	"github.com/skypies/geo"
)

// A Track is a slice of RoutePoints. Once normalized, they are ordered in time, beginning to end.
type Track []RoutePoint

type byTimestampAscending Track

func (a byTimestampAscending) Len() int           { return len(a) }
func (a byTimestampAscending) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTimestampAscending) Less(i, j int) bool { return a[i].T < a[j].T }

func (t Track) Start() int64 { return t[0].T }
func (t Track) End() int64   { return t[len(t)-1].T }

// Window is the track's own TimeWindow; zero for an empty track.
func (t Track) Window() TimeWindow {
	if len(t) == 0 {
		return TimeWindow{}
	}
	return NewTimeWindow(t.Start(), t.End())
}

func (t Track) String() string {
	if len(t) == 0 {
		return "Track: (no points)"
	}
	str := fmt.Sprintf("Track: %d points, start=%s", len(t), t[0].Time().Format("2006.01.02 15:04:05"))
	if len(t) > 1 {
		s, e := t[0], t[len(t)-1]
		str += fmt.Sprintf(", %dms, %.1fKM (%.0f deg)", e.T-s.T, t.DistanceKM(),
			DefaultBearing(s.Latlong(), e.Latlong()))
	}
	return str
}

// Sorted returns a copy of the track, stably sorted by timestamp.
func (t Track) Sorted() Track {
	ret := make(Track, len(t))
	copy(ret, t)
	sort.Stable(byTimestampAscending(ret))
	return ret
}

// Returns the (possibly empty) prefix of the track with timestamps <= ms. Track must be sorted.
func (t Track) UpTo(ms float64) Track {
	i := sort.Search(len(t), func(i int) bool { return float64(t[i].T) > ms })
	return t[:i]
}

// Bounds is the box that encloses every point; the zero box for an empty track.
func (t Track) Bounds() geo.LatlongBox {
	if len(t) == 0 {
		return geo.LatlongBox{}
	}
	box := t[0].Latlong().BoxTo(t[len(t)-1].Latlong())
	for _, p := range t {
		box.Enclose(p.Latlong())
	}
	return box
}

// DistanceKM is the great-circle distance along the track, point to point.
func (t Track) DistanceKM() float64 {
	path := gogeo.NewPath()
	for _, p := range t {
		path.Push(gogeo.NewPoint(p.Lng, p.Lat))
	}
	return path.GeoDistance() / 1000.0
}
