package routereplay

import (
	"math"

	"github.com/skypies/geo"
)

// BearingFunc computes the initial compass bearing, in degrees [0,360), from one position
// towards another. It is only consulted when the route carries no heading data.
type BearingFunc func(from, to geo.Latlong) float64

// DefaultBearing is the great-circle bearing from the geo package.
func DefaultBearing(from, to geo.Latlong) float64 {
	return normalizeDegrees(from.BearingTowards(to))
}

// An Interpolator places a track at a moment in time. A nil Bearing means headings
// are never computed; points without heading data just have none.
type Interpolator struct {
	Bearing BearingFunc
}

// Interpolate uses DefaultBearing for any missing headings.
func Interpolate(t Track, absoluteMs float64, w TimeWindow) (*InterpolatedPoint, error) {
	return Interpolator{Bearing: DefaultBearing}.At(t, absoluteMs, w)
}

// At returns the position, heading and progress of the (sorted) track at the absolute time.
// Times outside the window clamp to the first or last point. It returns nil, nil only for
// an empty track.
func (in Interpolator) At(t Track, absoluteMs float64, w TimeWindow) (*InterpolatedPoint, error) {
	if len(t) == 0 {
		return nil, nil
	}

	if absoluteMs <= float64(w.StartMs) {
		first := t[0]
		ip := &InterpolatedPoint{Lat: first.Lat, Lng: first.Lng, Heading: first.Heading}
		if ip.Heading == nil && len(t) > 1 {
			ip.Heading = in.bearing(first, t[1])
		}
		return ip, nil
	}
	if absoluteMs >= float64(w.EndMs) {
		last := t[len(t)-1]
		ip := &InterpolatedPoint{Lat: last.Lat, Lng: last.Lng, Heading: last.Heading, Progress: 1}
		if ip.Heading == nil && len(t) > 1 {
			ip.Heading = in.bearing(t[len(t)-2], last)
		}
		return ip, nil
	}

	i := findSegment(t, absoluteMs)
	if i < 0 {
		return nil, &InterpolationError{TimeMs: absoluteMs}
	}
	p1, p2 := t[i], t[i+1]

	segmentMs := p2.T - p1.T
	ratio := 1.0
	if segmentMs > 0 {
		ratio = (absoluteMs - float64(p1.T)) / float64(segmentMs)
	}

	ip := &InterpolatedPoint{
		Lat:      lerp(p1.Lat, p2.Lat, ratio),
		Lng:      lerp(p1.Lng, p2.Lng, ratio),
		Progress: progress(absoluteMs, w),
	}

	switch {
	case p1.Heading != nil && p2.Heading != nil:
		ip.Heading = Float64(InterpolateHeading(*p1.Heading, *p2.Heading, ratio))
	case p1.Heading != nil, segmentMs == 0:
		ip.Heading = p1.Heading
	case !p1.SamePlace(p2):
		ip.Heading = in.bearing(p1, p2)
	default:
		ip.Heading = p1.Heading
	}

	return ip, nil
}

// findSegment returns i such that [t[i], t[i+1]] brackets ms, or -1. Zero-duration
// segments only match if ms is exactly their timestamp.
func findSegment(t Track, ms float64) int {
	for i := 0; i < len(t)-1; i++ {
		t1, t2 := float64(t[i].T), float64(t[i+1].T)
		if t1 == t2 {
			if ms == t1 {
				return i
			}
			continue
		}
		if ms >= t1 && ms <= t2 {
			return i
		}
	}
	return -1
}

func (in Interpolator) bearing(from, to RoutePoint) *float64 {
	if in.Bearing == nil {
		return nil
	}
	b := in.Bearing(from.Latlong(), to.Latlong())
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return nil
	}
	return Float64(normalizeDegrees(b))
}

// InterpolateHeading takes the shortest way around the compass. When the two headings are
// exactly opposite (delta of +/-180) it turns in the direction of h2-h1, so
// (0,180,0.5) is 90 and (180,0,0.5) is 90 as well.
func InterpolateHeading(h1, h2, ratio float64) float64 {
	delta := h2 - h1
	if delta > 180 {
		delta -= 360
	} else if delta < -180 {
		delta += 360
	}
	return normalizeDegrees(h1 + delta*ratio + 360)
}

func progress(absoluteMs float64, w TimeWindow) float64 {
	if w.DurationMs <= 0 {
		if absoluteMs >= float64(w.StartMs) {
			return 1
		}
		return 0
	}
	return math.Min(1, math.Max(0, (absoluteMs-float64(w.StartMs))/float64(w.DurationMs)))
}

func lerp(a, b, ratio float64) float64 { return a + (b-a)*ratio }

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
