package routeio

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	rr "github.com/skypies/routereplay"
)

// DecodeGeoJSON reads a FeatureCollection. Every LineString feature is a track; its
// timestamps come from a "coordTimes" (or "times") property, one per coordinate, as either
// epoch millis or RFC3339 strings. An optional "headings" property gives per-coordinate
// headings (null for none). The track id is the feature id, else its "name" property.
// Other geometries are ignored.
func DecodeGeoJSON(data []byte) (rr.RouteInput, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("routeio: geojson: %w", err)
	}

	lines := []*geojson.Feature{}
	for _, f := range fc.Features {
		if _, ok := f.Geometry.(orb.LineString); ok {
			lines = append(lines, f)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("routeio: geojson has no LineString features")
	}

	ret := rr.MultiTrack{}
	for i, f := range lines {
		id := featureID(f, i, len(lines))
		if _, exists := ret[id]; exists {
			return nil, fmt.Errorf("routeio: geojson: duplicate track id %q", id)
		}
		pts, err := featureTrack(f)
		if err != nil {
			return nil, fmt.Errorf("routeio: geojson track %q: %w", id, err)
		}
		ret[id] = pts
	}
	return ret, nil
}

func featureID(f *geojson.Feature, i, n int) string {
	switch v := f.ID.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	if name, ok := f.Properties["name"].(string); ok && name != "" {
		return name
	}
	if n == 1 {
		return rr.MainTrackID
	}
	return fmt.Sprintf("track-%d", i)
}

func featureTrack(f *geojson.Feature) ([]rr.RoutePoint, error) {
	ls := f.Geometry.(orb.LineString)

	raw, ok := f.Properties["coordTimes"].([]interface{})
	if !ok {
		raw, ok = f.Properties["times"].([]interface{})
	}
	if !ok {
		return nil, fmt.Errorf("no coordTimes or times property")
	}
	if len(raw) != len(ls) {
		return nil, fmt.Errorf("%d coordinates but %d times", len(ls), len(raw))
	}

	headings, _ := f.Properties["headings"].([]interface{})
	if headings != nil && len(headings) != len(ls) {
		return nil, fmt.Errorf("%d coordinates but %d headings", len(ls), len(headings))
	}

	ret := make([]rr.RoutePoint, len(ls))
	for i, pt := range ls {
		ms, err := parseTime(raw[i])
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		ret[i] = rr.RoutePoint{Lat: pt.Lat(), Lng: pt.Lon(), T: ms}
		if headings != nil {
			if h, ok := headings[i].(float64); ok {
				ret[i].Heading = rr.Float64(h)
			}
		}
	}
	return ret, nil
}

func parseTime(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		tm, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return 0, err
		}
		return tm.UnixMilli(), nil
	}
	return 0, fmt.Errorf("time %v is neither epoch millis nor RFC3339", v)
}
