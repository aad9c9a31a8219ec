package routereplay

import "fmt"

// TimeWindow is the absolute time span covered by a track, or by the union of all tracks.
type TimeWindow struct {
	StartMs    int64
	EndMs      int64
	DurationMs int64 // never negative
}

func NewTimeWindow(startMs, endMs int64) TimeWindow {
	w := TimeWindow{StartMs: startMs, EndMs: endMs}
	if endMs > startMs {
		w.DurationMs = endMs - startMs
	}
	return w
}

// GlobalWindow runs from the earliest start to the latest end. It is not
// the sum of the durations; tracks may overlap, or be offset from each other.
func GlobalWindow(windows ...TimeWindow) TimeWindow {
	if len(windows) == 0 {
		return TimeWindow{}
	}
	s, e := windows[0].StartMs, windows[0].EndMs
	for _, w := range windows[1:] {
		if w.StartMs < s {
			s = w.StartMs
		}
		if w.EndMs > e {
			e = w.EndMs
		}
	}
	return NewTimeWindow(s, e)
}

// Contains is inclusive at both ends.
func (w TimeWindow) Contains(ms float64) bool {
	return ms >= float64(w.StartMs) && ms <= float64(w.EndMs)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%d -> %d, %dms]", w.StartMs, w.EndMs, w.DurationMs)
}
