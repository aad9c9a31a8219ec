package routereplay

import "fmt"

// ValidationError is returned for route input that cannot be played: missing, an
// empty multi-track map, or a track with fewer than two usable points.
type ValidationError struct {
	TrackID string // blank if the problem is with the input as a whole
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.TrackID == "" {
		return fmt.Sprintf("invalid route: %s", e.Reason)
	}
	return fmt.Sprintf("invalid route, track %q: %s", e.TrackID, e.Reason)
}

// InterpolationError means a time inside the track window matched no segment. It
// should never happen for a sorted track; it indicates a broken invariant.
type InterpolationError struct {
	TrackID string
	TimeMs  float64
}

func (e *InterpolationError) Error() string {
	return fmt.Sprintf("interpolate: no segment for track %q at t=%.1f", e.TrackID, e.TimeMs)
}

// ConfigurationError is for playback settings that the model can't honour, such as a
// non-positive speed, or reverse playback.
type ConfigurationError struct {
	Field string
	Value interface{}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("bad playback setting %s=%v", e.Field, e.Value)
}
