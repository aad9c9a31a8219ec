package routereplay

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSingleTrack(t *testing.T) {
	in := SingleTrack{
		{T: 3000, Lat: 3, Lng: 3},
		{T: 1000, Lat: 1, Lng: 1},
		{T: 2000, Lat: 2, Lng: 2},
		{T: 2000, Lat: 2, Lng: 2}, // exact duplicate
	}
	r, err := NormalizeRoute(in)
	require.NoError(t, err)

	require.Len(t, r.Tracks, 1)
	nt := r.Tracks[0]
	assert.Equal(t, MainTrackID, nt.ID)
	assert.False(t, r.Multi)
	assert.Equal(t, []int64{1000, 2000, 3000}, []int64{nt.Track[0].T, nt.Track[1].T, nt.Track[2].T})
	assert.Equal(t, TimeWindow{1000, 3000, 2000}, nt.Window)
	assert.Equal(t, nt.Window, r.Window)
	assert.Equal(t, 1, r.Dropped)

	// The input itself is untouched
	assert.Equal(t, int64(3000), in[0].T)
}

func TestNormalizeKeepsSameTimeDifferentPlace(t *testing.T) {
	r, err := NormalizeRoute(SingleTrack{
		{T: 1000, Lat: 1, Lng: 1},
		{T: 1000, Lat: 2, Lng: 2},
	})
	require.NoError(t, err)
	assert.Len(t, r.Tracks[0].Track, 2)
	assert.Equal(t, int64(0), r.Window.DurationMs)
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		Name  string
		In    RouteInput
		Track string
	}{
		{"nil", nil, ""},
		{"nil single", SingleTrack(nil), ""},
		{"one point", SingleTrack{{T: 1, Lat: 1, Lng: 1}}, MainTrackID},
		{"duplicates only", SingleTrack{{T: 1, Lat: 1, Lng: 1}, {T: 1, Lat: 1, Lng: 1}}, MainTrackID},
		{"bad coords", SingleTrack{{T: 1, Lat: 91, Lng: 1}, {T: 2, Lat: 1, Lng: 1}}, MainTrackID},
		{"empty multi", MultiTrack{}, ""},
		{"no valid tracks", MultiTrack{"a": {{T: 1}}, "b": nil}, ""},
	}

	for _, test := range tests {
		r, err := NormalizeRoute(test.In)
		assert.Nil(t, r, test.Name)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected a ValidationError, got %v", test.Name, err)
			continue
		}
		assert.Equal(t, test.Track, ve.TrackID, test.Name)
	}
}

func TestNormalizeDropsInvalidPoints(t *testing.T) {
	r, err := NormalizeRoute(SingleTrack{
		{T: 0, Lat: 0, Lng: 0},
		{T: 1, Lat: math.NaN(), Lng: 0},
		{T: 2, Lat: 0, Lng: 181},
		{T: 3, Lat: 0, Lng: 1, Heading: Float64(400)},
		{T: 4, Lat: 0, Lng: 2, Heading: Float64(360)},
	})
	require.NoError(t, err)
	assert.Len(t, r.Tracks[0].Track, 2)
	assert.Equal(t, 3, r.Dropped)
}

func TestNormalizeMultiTrack(t *testing.T) {
	r, err := NormalizeRoute(MultiTrack{
		"B":   {{T: 500, Lat: 0, Lng: 0}, {T: 1500, Lat: 1, Lng: 1}},
		"A":   {{T: 1000, Lat: 0, Lng: 0}, {T: 0, Lat: 1, Lng: 1}},
		"bad": {{T: 700, Lat: 0, Lng: 0}},
	})
	require.NoError(t, err)

	assert.True(t, r.Multi)
	assert.Equal(t, []string{"A", "B"}, r.IDs())
	assert.Equal(t, TimeWindow{0, 1500, 1500}, r.Window)

	require.Len(t, r.Skipped, 1)
	assert.Equal(t, "bad", r.Skipped[0].ID)

	a, ok := r.Track("A")
	require.True(t, ok)
	assert.Equal(t, TimeWindow{0, 1000, 1000}, a.Window)
	_, ok = r.Track("bad")
	assert.False(t, ok)
}

func TestGlobalWindow(t *testing.T) {
	w := GlobalWindow(NewTimeWindow(0, 1000), NewTimeWindow(500, 1500))
	assert.Equal(t, TimeWindow{StartMs: 0, EndMs: 1500, DurationMs: 1500}, w)

	// Disjoint tracks: the gap counts, it's not a sum of durations
	w = GlobalWindow(NewTimeWindow(0, 100), NewTimeWindow(900, 1000))
	assert.Equal(t, int64(1000), w.DurationMs)

	assert.Equal(t, TimeWindow{}, GlobalWindow())
	assert.Equal(t, int64(0), NewTimeWindow(10, 5).DurationMs)
}

func TestTrackUpTo(t *testing.T) {
	tr := Track{{T: 0}, {T: 100}, {T: 100}, {T: 200}}
	assert.Len(t, tr.UpTo(-1), 0)
	assert.Len(t, tr.UpTo(0), 1)
	assert.Len(t, tr.UpTo(100), 3)
	assert.Len(t, tr.UpTo(150.5), 3)
	assert.Len(t, tr.UpTo(1e9), 4)
}

func TestRouteBounds(t *testing.T) {
	r, err := NormalizeRoute(MultiTrack{
		"a": {{T: 0, Lat: 1, Lng: 1}, {T: 10, Lat: 2, Lng: 3}},
		"b": {{T: 0, Lat: -1, Lng: 2}, {T: 10, Lat: 0, Lng: 5}},
	})
	require.NoError(t, err)

	box := r.Bounds()
	assert.Equal(t, -1.0, box.SW.Lat)
	assert.Equal(t, 1.0, box.SW.Long)
	assert.Equal(t, 2.0, box.NE.Lat)
	assert.Equal(t, 5.0, box.NE.Long)
}

func TestRouteSummary(t *testing.T) {
	r, err := NormalizeRoute(SingleTrack{{T: 0, Lat: 0, Lng: 0}, {T: 60000, Lat: 0, Lng: 1}})
	require.NoError(t, err)

	s := r.Summary()
	require.Len(t, s, 1)
	assert.Equal(t, 2, s[0].Points)
	// One degree of longitude at the equator is ~111KM
	assert.InDelta(t, 111.2, s[0].DistanceKM, 0.5)
}
