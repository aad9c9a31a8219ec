package routereplay

import (
	"fmt"

	"github.com/skypies/geo"
)

// TrackSummary is a one-line description of a normalized track.
type TrackSummary struct {
	ID         string
	Points     int
	Window     TimeWindow
	DistanceKM float64
}

func (ts TrackSummary) String() string {
	return fmt.Sprintf("%-12.12s %5dpts %s %.2fKM", ts.ID, ts.Points, ts.Window, ts.DistanceKM)
}

func (r *Route) Summary() []TrackSummary {
	ret := []TrackSummary{}
	for _, nt := range r.Tracks {
		ret = append(ret, TrackSummary{
			ID:         nt.ID,
			Points:     len(nt.Track),
			Window:     nt.Window,
			DistanceKM: nt.Track.DistanceKM(),
		})
	}
	return ret
}

// Bounds encloses every point of every track.
func (r *Route) Bounds() geo.LatlongBox {
	var box *geo.LatlongBox
	for _, nt := range r.Tracks {
		b := nt.Track.Bounds()
		if box == nil {
			box = &b
			continue
		}
		box.Enclose(b.SW)
		box.Enclose(b.NE)
	}
	if box == nil {
		return geo.LatlongBox{}
	}
	return *box
}

func (r *Route) String() string {
	str := fmt.Sprintf("Route: %d track(s), window %s", len(r.Tracks), r.Window)
	for _, s := range r.Summary() {
		str += "\n  - " + s.String()
	}
	for _, s := range r.Skipped {
		str += fmt.Sprintf("\n  - %-12.12s skipped: %s", s.ID, s.Reason)
	}
	return str
}
