package timeline

import (
	"fmt"
	"math"

	"github.com/fogleman/ease"
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/skypies/geo"

	rr "github.com/skypies/routereplay"
)

type CameraMode string

const (
	CameraNone   CameraMode = "none"
	CameraCenter CameraMode = "center" // keep the lead track centered
	CameraAhead  CameraMode = "ahead"  // look ahead of the lead track, along its heading
)

func ParseCameraMode(s string) (CameraMode, error) {
	switch m := CameraMode(s); m {
	case CameraNone, CameraCenter, CameraAhead:
		return m, nil
	case "":
		return CameraNone, nil
	}
	return CameraNone, &rr.ConfigurationError{Field: "camera.mode", Value: s}
}

type CameraOptions struct {
	AheadDistanceM float64
	Tilt           float64
	Zoom           float64
	SmoothMs       float64 // zero snaps straight to the target
}

var DefaultCameraOptions = CameraOptions{
	AheadDistanceM: 100,
	Tilt:           45,
	Zoom:           15,
}

func (o CameraOptions) String() string {
	return fmt.Sprintf("ahead=%.0fm tilt=%.0f zoom=%.1f smooth=%.0fms",
		o.AheadDistanceM, o.Tilt, o.Zoom, o.SmoothMs)
}

// follower moves a camera after the lead track.
type follower struct {
	cam  Camera
	mode CameraMode
	opts CameraOptions

	placed bool
	center geo.Latlong
	lastMs float64
}

// follow moves the camera for the lead track's position at absMs. With smoothing on, the
// center eases from where it was towards the target; snap skips that (e.g. after a seek).
func (f *follower) follow(ip *rr.InterpolatedPoint, absMs float64, snap bool) {
	if f.cam == nil || f.mode == CameraNone || f.mode == "" || ip == nil {
		return
	}

	target := ip.Latlong()
	center := target
	if !snap && f.placed && f.opts.SmoothMs > 0 {
		k := ease.InOutQuad(math.Min(1, math.Abs(absMs-f.lastMs)/f.opts.SmoothMs))
		center = geo.Latlong{
			Lat:  f.center.Lat + (target.Lat-f.center.Lat)*k,
			Long: f.center.Long + (target.Long-f.center.Long)*k,
		}
	}
	f.center, f.lastMs, f.placed = center, absMs, true

	switch f.mode {
	case CameraCenter:
		f.cam.PanTo(center)

	case CameraAhead:
		if ip.Heading == nil {
			f.cam.PanTo(center)
			return
		}
		f.cam.MoveCamera(CameraView{
			Center:  aheadOf(center, *ip.Heading, f.opts.AheadDistanceM),
			Heading: *ip.Heading,
			Tilt:    f.opts.Tilt,
			Zoom:    f.opts.Zoom,
		})
	}
}

func (f *follower) reset() { f.placed = false }

// aheadOf is the point the given distance away along the heading.
func aheadOf(pos geo.Latlong, heading, meters float64) geo.Latlong {
	if meters <= 0 {
		return pos
	}
	p := orbgeo.PointAtBearingAndDistance(orb.Point{pos.Long, pos.Lat}, heading, meters)
	return geo.Latlong{Lat: p.Lat(), Long: p.Lon()}
}
