package routereplay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// t1: a contiguous real track, broken in half into t1a and t1b.
	t1a = []byte(`[
{"TimestampUTC":"2016-01-01T21:36:08.217Z","Lat":37.23262,"Long":-122.06646,"Altitude":19025,"GroundSpeed":433,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:08.767Z","Lat":37.23178,"Long":-122.06539,"Altitude":19050,"GroundSpeed":433,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:11.176Z","Lat":37.22815,"Long":-122.06073,"Altitude":19125,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:11.646Z","Lat":37.22731,"Long":-122.05968,"Altitude":19150,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:12.566Z","Lat":37.22617,"Long":-122.05822,"Altitude":19175,"GroundSpeed":434,"Heading":134}]`)
	t1b = []byte(`[
{"TimestampUTC":"2016-01-01T21:36:12.987Z","Lat":37.22562,"Long":-122.05752,"Altitude":19200,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:14.416Z","Lat":37.22363,"Long":-122.055,"Altitude":19250,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:14.977Z","Lat":37.2225,"Long":-122.05355,"Altitude":19275,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:16.517Z","Lat":37.22026,"Long":-122.05068,"Altitude":19325,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:17.026Z","Lat":37.21967,"Long":-122.04992,"Altitude":19350,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:17.526Z","Lat":37.21884,"Long":-122.04885,"Altitude":19375,"GroundSpeed":435,"Heading":134}]`)

	// t6: misordered points, split across two batches
	t6a = []byte(`[
{"TimestampUTC":"2016-01-01T21:36:08.217Z","Lat":37.23262,"Long":-122.06646,"Altitude":19025,"GroundSpeed":433,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:08.767Z","Lat":37.23178,"Long":-122.06539,"Altitude":19050,"GroundSpeed":433,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:11.176Z","Lat":37.22815,"Long":-122.06073,"Altitude":19125,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:11.646Z","Lat":37.22731,"Long":-122.05968,"Altitude":19150,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:12.987Z","Lat":37.22562,"Long":-122.05752,"Altitude":19200,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:14.416Z","Lat":37.22363,"Long":-122.055,"Altitude":19250,"GroundSpeed":434,"Heading":134}]`)
	t6b = []byte(`[
{"TimestampUTC":"2016-01-01T21:36:12.566Z","Lat":37.22617,"Long":-122.05822,"Altitude":19175,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:14.977Z","Lat":37.2225,"Long":-122.05355,"Altitude":19275,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:16.517Z","Lat":37.22026,"Long":-122.05068,"Altitude":19325,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:17.026Z","Lat":37.21967,"Long":-122.04992,"Altitude":19350,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:17.526Z","Lat":37.21884,"Long":-122.04885,"Altitude":19375,"GroundSpeed":435,"Heading":134}]`)

	// This is a real track, for reference
	tN = []byte(`[
{"TimestampUTC":"2016-01-01T21:36:08.217Z","Lat":37.23262,"Long":-122.06646,"Altitude":19025,"GroundSpeed":433,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:08.767Z","Lat":37.23178,"Long":-122.06539,"Altitude":19050,"GroundSpeed":433,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:11.176Z","Lat":37.22815,"Long":-122.06073,"Altitude":19125,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:11.646Z","Lat":37.22731,"Long":-122.05968,"Altitude":19150,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:12.566Z","Lat":37.22617,"Long":-122.05822,"Altitude":19175,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:12.987Z","Lat":37.22562,"Long":-122.05752,"Altitude":19200,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:14.416Z","Lat":37.22363,"Long":-122.055,"Altitude":19250,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:14.977Z","Lat":37.2225,"Long":-122.05355,"Altitude":19275,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:16.517Z","Lat":37.22026,"Long":-122.05068,"Altitude":19325,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:17.026Z","Lat":37.21967,"Long":-122.04992,"Altitude":19350,"GroundSpeed":434,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:17.526Z","Lat":37.21884,"Long":-122.04885,"Altitude":19375,"GroundSpeed":435,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:18.527Z","Lat":37.21715,"Long":-122.04671,"Altitude":19400,"GroundSpeed":435,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:19.637Z","Lat":37.21545,"Long":-122.04455,"Altitude":19450,"GroundSpeed":435,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:20.617Z","Lat":37.21431,"Long":-122.04309,"Altitude":19475,"GroundSpeed":435,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:21.726Z","Lat":37.21262,"Long":-122.04092,"Altitude":19525,"GroundSpeed":435,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:22.296Z","Lat":37.21176,"Long":-122.03989,"Altitude":19550,"GroundSpeed":435,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:23.176Z","Lat":37.21065,"Long":-122.0384,"Altitude":19575,"GroundSpeed":436,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:23.587Z","Lat":37.21004,"Long":-122.03769,"Altitude":19600,"GroundSpeed":436,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:24.556Z","Lat":37.20836,"Long":-122.03555,"Altitude":19625,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:25.636Z","Lat":37.20667,"Long":-122.03339,"Altitude":19650,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:26.107Z","Lat":37.20612,"Long":-122.03263,"Altitude":19675,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:26.946Z","Lat":37.20497,"Long":-122.03122,"Altitude":19700,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:27.906Z","Lat":37.20352,"Long":-122.02939,"Altitude":19725,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:28.416Z","Lat":37.20297,"Long":-122.02867,"Altitude":19750,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:29.256Z","Lat":37.20268,"Long":-122.0283,"Altitude":19775,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:29.677Z","Lat":37.20213,"Long":-122.0276,"Altitude":19800,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:30.096Z","Lat":37.20154,"Long":-122.02684,"Altitude":19800,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:31.116Z","Lat":37.20013,"Long":-122.02509,"Altitude":19825,"GroundSpeed":437,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:31.517Z","Lat":37.19957,"Long":-122.02431,"Altitude":19850,"GroundSpeed":438,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:33.477Z","Lat":37.19673,"Long":-122.02073,"Altitude":19900,"GroundSpeed":439,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:33.906Z","Lat":37.19584,"Long":-122.01959,"Altitude":19900,"GroundSpeed":439,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:34.357Z","Lat":37.19528,"Long":-122.01888,"Altitude":19925,"GroundSpeed":439,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:35.376Z","Lat":37.19385,"Long":-122.01708,"Altitude":19950,"GroundSpeed":439,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:35.806Z","Lat":37.1933,"Long":-122.01632,"Altitude":19950,"GroundSpeed":439,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:36.837Z","Lat":37.19156,"Long":-122.01416,"Altitude":19975,"GroundSpeed":440,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:37.877Z","Lat":37.19012,"Long":-122.01237,"Altitude":20000,"GroundSpeed":440,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:38.296Z","Lat":37.18956,"Long":-122.01159,"Altitude":20000,"GroundSpeed":441,"Heading":134},
{"TimestampUTC":"2016-01-01T21:36:39.276Z","Lat":37.18785,"Long":-122.00943,"Altitude":20025,"GroundSpeed":441,"Heading":134}]`)
)

// loadTrack reads trackpoints as logged by an ADS-B receiver (altitude in feet).
func loadTrack(t *testing.T, b []byte) Track {
	tps := []struct {
		TimestampUTC time.Time
		Lat, Long    float64
		Altitude     float64
		Heading      float64
	}{}
	require.NoError(t, json.Unmarshal(b, &tps))

	ret := Track{}
	for _, tp := range tps {
		ret = append(ret, RoutePoint{
			Lat:       tp.Lat,
			Lng:       tp.Long,
			T:         tp.TimestampUTC.UnixMilli(),
			Heading:   Float64(tp.Heading),
			Elevation: Float64(tp.Altitude * kFeetToMeters),
		})
	}
	return ret
}

func TestContiguousHalves(t *testing.T) {
	tA, tB := loadTrack(t, t1a), loadTrack(t, t1b)
	assert.Less(t, tA.End(), tB.Start())

	w := GlobalWindow(tA.Window(), tB.Window())
	assert.Equal(t, tA.Start(), w.StartMs)
	assert.Equal(t, tB.End(), w.EndMs)
	assert.Equal(t, int64(9309), w.DurationMs) // 21:36:08.217 -> 21:36:17.526
}

func TestSortedMisordered(t *testing.T) {
	merged := append(loadTrack(t, t6a), loadTrack(t, t6b)...)
	sorted := merged.Sorted()
	require.Len(t, sorted, len(merged))
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].T > sorted[i].T {
			t.Errorf("point %d out of order: %s then %s", i, sorted[i-1], sorted[i])
		}
	}
	assert.NotEqual(t, merged, sorted, "Sorted returns a copy")

	route, err := NormalizeRoute(SingleTrack(merged))
	require.NoError(t, err)
	assert.Equal(t, sorted, route.Tracks[0].Track)
}

func TestRealTrack(t *testing.T) {
	tr := loadTrack(t, tN)
	w := tr.Window()

	assert.InDelta(t, 7.1, tr.DistanceKM(), 0.2)
	assert.InDelta(t, 134.5, DefaultBearing(tr[0].Latlong(), tr[len(tr)-1].Latlong()), 1.5)
	assert.InDelta(t, 6103.6, *tr[len(tr)-1].Elevation, 0.1) // 20025ft

	box := tr.Bounds()
	lastProgress := -1.0
	for ms := w.StartMs; ms <= w.EndMs; ms += 250 {
		ip, err := Interpolate(tr, float64(ms), w)
		require.NoError(t, err)
		require.NotNil(t, ip.Heading)
		assert.InDelta(t, 134.0, *ip.Heading, 1e-9)
		assert.True(t, ip.Latlong().Lat >= box.SW.Lat && ip.Latlong().Lat <= box.NE.Lat)
		assert.True(t, ip.Latlong().Long >= box.SW.Long && ip.Latlong().Long <= box.NE.Long)
		assert.GreaterOrEqual(t, ip.Progress, lastProgress)
		lastProgress = ip.Progress
	}

	// Half way through, by time
	mid := float64(w.StartMs) + float64(w.DurationMs)/2
	ip, err := Interpolate(tr, mid, w)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ip.Progress, 1e-9)
	assert.Equal(t, 18, len(tr.UpTo(mid))) // up to 21:36:23.587
}
