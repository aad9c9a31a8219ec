package routereplay

import (
	"fmt"
	"time"

	"github.com/skypies/geo"
)

// RoutePoint is a single recorded position, located in space and (absolute) time.
type RoutePoint struct {
	Lat       float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lng       float64  `json:"lng" validate:"gte=-180,lte=180"`
	T         int64    `json:"t"`                                                    // Unix millis
	Heading   *float64 `json:"heading,omitempty" validate:"omitempty,gte=0,lte=360"` // [0.0, 360.0] degrees
	Elevation *float64 `json:"elev,omitempty"`                                       // meters
}

// InterpolatedPoint is where a track is at some moment; recomputed every tick, never stored.
type InterpolatedPoint struct {
	Lat      float64
	Lng      float64
	Heading  *float64 // nil if the data has none and no bearing could be computed
	Progress float64  // [0,1], relative to the track's own window
}

// Float64 returns a pointer to v, for the optional fields.
func Float64(v float64) *float64 { return &v }

func (p RoutePoint) Latlong() geo.Latlong { return geo.Latlong{Lat: p.Lat, Long: p.Lng} }
func (p RoutePoint) Time() time.Time      { return time.UnixMilli(p.T).UTC() }
func (p RoutePoint) HasHeading() bool     { return p.Heading != nil }

// SamePlace is true if both points are at exactly the same coords.
func (p RoutePoint) SamePlace(p2 RoutePoint) bool { return p.Lat == p2.Lat && p.Lng == p2.Lng }

func (p RoutePoint) String() string {
	str := fmt.Sprintf("[%s] (%.6f,%.6f)", p.Time().Format("15:04:05.000"), p.Lat, p.Lng)
	if p.Heading != nil {
		str += fmt.Sprintf(" %.0fdeg", *p.Heading)
	}
	if p.Elevation != nil {
		str += fmt.Sprintf(" %.0fm", *p.Elevation)
	}
	return str
}

func (ip InterpolatedPoint) Latlong() geo.Latlong { return geo.Latlong{Lat: ip.Lat, Long: ip.Lng} }

func (ip InterpolatedPoint) String() string {
	str := fmt.Sprintf("(%.6f,%.6f) %3.0f%%", ip.Lat, ip.Lng, ip.Progress*100)
	if ip.Heading != nil {
		str += fmt.Sprintf(" %.0fdeg", *ip.Heading)
	}
	return str
}
