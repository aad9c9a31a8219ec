// Package routeio decodes route data from JSON and GeoJSON.
package routeio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rr "github.com/skypies/routereplay"
)

const (
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
)

// ReadFile loads a route from disk. An empty format is guessed from the file extension.
func ReadFile(path, format string) (rr.RouteInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatFromPath(path)
	}
	in, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson":
		return FormatGeoJSON
	}
	return FormatJSON
}

func Decode(data []byte, format string) (rr.RouteInput, error) {
	switch format {
	case FormatJSON, "":
		return DecodeJSON(data)
	case FormatGeoJSON:
		return DecodeGeoJSON(data)
	}
	return nil, &rr.ConfigurationError{Field: "route.format", Value: format}
}

// jsonPoint is a RoutePoint on the wire; elevation may be spelled out in full.
type jsonPoint struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	T         int64    `json:"t"`
	Heading   *float64 `json:"heading"`
	Elev      *float64 `json:"elev"`
	Elevation *float64 `json:"elevation"`
}

func (jp jsonPoint) RoutePoint() rr.RoutePoint {
	rp := rr.RoutePoint{Lat: jp.Lat, Lng: jp.Lng, T: jp.T, Heading: jp.Heading, Elevation: jp.Elev}
	if rp.Elevation == nil {
		rp.Elevation = jp.Elevation
	}
	return rp
}

func toTrack(jps []jsonPoint) []rr.RoutePoint {
	ret := make([]rr.RoutePoint, len(jps))
	for i, jp := range jps {
		ret[i] = jp.RoutePoint()
	}
	return ret
}

// DecodeJSON accepts either an array of points (a single track), or an object mapping
// track ids to arrays of points. Points look like {"lat":..,"lng":..,"t":..}, with
// optional "heading" and "elev".
func DecodeJSON(data []byte) (rr.RouteInput, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("routeio: empty JSON")
	}

	switch trimmed[0] {
	case '[':
		jps := []jsonPoint{}
		if err := json.Unmarshal(trimmed, &jps); err != nil {
			return nil, fmt.Errorf("routeio: single track: %w", err)
		}
		return rr.SingleTrack(toTrack(jps)), nil

	case '{':
		m := map[string][]jsonPoint{}
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil, fmt.Errorf("routeio: multi track: %w", err)
		}
		ret := rr.MultiTrack{}
		for id, jps := range m {
			ret[id] = toTrack(jps)
		}
		return ret, nil
	}

	return nil, fmt.Errorf("routeio: JSON route must be an array or an object, not '%c'", trimmed[0])
}
