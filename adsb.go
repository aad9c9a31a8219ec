package routereplay

import (
	"sort"

	"github.com/skypies/adsb"
)

const kFeetToMeters = 0.3048

// FromADSB turns a batch of ADS-B messages into a multi-track route, one track per
// aircraft (keyed by ICAO id). Messages without a position are ignored.
func FromADSB(msgs []*adsb.CompositeMsg) MultiTrack {
	sorted := []*adsb.CompositeMsg{}
	for _, m := range msgs {
		if m != nil && !m.Position.IsNil() {
			sorted = append(sorted, m)
		}
	}
	sort.Sort(adsb.CompositeMsgPtrByTimeAsc(sorted))

	ret := MultiTrack{}
	for _, m := range sorted {
		id := string(m.Icao24)
		ret[id] = append(ret[id], RoutePointFromADSB(m))
	}
	return ret
}

func RoutePointFromADSB(m *adsb.CompositeMsg) RoutePoint {
	return RoutePoint{
		Lat:       m.Position.Lat,
		Lng:       m.Position.Long,
		T:         m.GeneratedTimestampUTC.UnixMilli(),
		Heading:   Float64(normalizeDegrees(float64(m.Track))),
		Elevation: Float64(float64(m.Altitude) * kFeetToMeters),
	}
}
