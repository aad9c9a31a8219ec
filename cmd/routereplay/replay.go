package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/skypies/geo"
	"github.com/skypies/util/date"
	"github.com/skypies/util/histogram"

	rr "github.com/skypies/routereplay"
	"github.com/skypies/routereplay/clock"
	"github.com/skypies/routereplay/config"
	"github.com/skypies/routereplay/fpdf"
	"github.com/skypies/routereplay/timeline"
)

// {{{ logRenderer

// logRenderer logs every Nth marker update per track.
type logRenderer struct {
	logger  *log.Logger
	every   int
	updates map[string]int
}

func (lr *logRenderer) UpdateMarker(id string, pos geo.Latlong, heading *float64) {
	lr.updates[id]++
	if lr.every > 0 && lr.updates[id]%lr.every == 1 {
		hdg := "-"
		if heading != nil {
			hdg = fmt.Sprintf("%.0f", *heading)
		}
		lr.logger.Printf("marker %-10s %s hdg=%s (#%d)", id, pos, hdg, lr.updates[id])
	}
}
func (lr *logRenderer) RemoveMarker(id string) { lr.logger.Printf("marker %s removed", id) }
func (lr *logRenderer) RemoveAllMarkers()      {}

// }}}
// {{{ logCamera

type logCamera struct {
	logger  *log.Logger
	verbose bool
	moves   int
}

func (lc *logCamera) PanTo(pos geo.Latlong) {
	lc.moves++
	if lc.verbose {
		lc.logger.Printf("camera pan %s", pos)
	}
}
func (lc *logCamera) MoveCamera(v timeline.CameraView) {
	lc.moves++
	if lc.verbose {
		lc.logger.Printf("camera move %s", v)
	}
}
func (lc *logCamera) FitBounds(box geo.LatlongBox) {
	lc.logger.Printf("camera fit %s -> %s", box.SW, box.NE)
}

// }}}
// {{{ timedSource

// timedSource counts ticks, and records how long each tick callback takes, in micros.
type timedSource struct {
	clock.TickSource
	stats *histogram.Set
	ticks int
}

func (ts *timedSource) Register(fn clock.TickFunc) func() {
	return ts.TickSource.Register(func(now time.Time) {
		tStart := time.Now()
		fn(now)
		ts.ticks++
		ts.stats.RecordValue("tick_us", time.Since(tStart).Nanoseconds()/1000)
	})
}

func (ts *timedSource) Now() time.Time {
	if n, ok := ts.TickSource.(clock.Nower); ok {
		return n.Now()
	}
	return time.Now()
}

// }}}

type result struct {
	Route    *rr.Route
	Finished bool
	Frames   map[string]int
	Ticks    int
	Elapsed  time.Duration
	Stats    *histogram.Set
	Trail    *fpdf.TrailRenderer
}

func (res result) String() string {
	str := fmt.Sprintf("%s\n", res.Route)
	for _, ts := range res.Route.Summary() {
		str += fmt.Sprintf("  %s, %d frames\n", ts, res.Frames[ts.ID])
	}
	str += fmt.Sprintf("finished=%v after %d ticks, in %s\n", res.Finished, res.Ticks, date.RoundDuration(res.Elapsed))
	str += fmt.Sprintf("Stats:-\n%s", res.Stats)
	return str
}

// {{{ runReplay

// runReplay plays the route to completion (or until ctx is done), on a real ticker or, when
// simulating, on a manual source stepped as fast as possible.
func runReplay(ctx context.Context, cfg *config.Config, in rr.RouteInput, logger *log.Logger) (*result, error) {
	mode, err := timeline.ParseCameraMode(cfg.Camera.Mode)
	if err != nil {
		return nil, err
	}

	stats := histogram.NewSet(100000) // maxval, in micros
	res := &result{
		Frames: map[string]int{},
		Stats:  &stats,
		Trail:  fpdf.NewTrailRenderer(),
	}
	lr := &logRenderer{logger: logger, every: cfg.Output.FrameLogEvery, updates: map[string]int{}}
	cam := &logCamera{logger: logger, verbose: fVerbose}

	var src clock.TickSource
	var manual *clock.ManualSource
	var ticker *clock.TickerSource
	if cfg.Output.Simulate {
		manual = clock.NewManualSource(time.Now())
		src = manual
	} else {
		ticker = clock.NewTickerSource(cfg.Playback.FPS)
		src = ticker
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ts := &timedSource{TickSource: src, stats: res.Stats}
	p := timeline.New(ts, timeline.Options{
		Renderer:   timeline.MultiRenderer{res.Trail, lr},
		Camera:     cam,
		CameraMode: mode,
		CameraOptions: &timeline.CameraOptions{
			AheadDistanceM: cfg.Camera.AheadDistanceM,
			Tilt:           cfg.Camera.Tilt,
			Zoom:           cfg.Camera.Zoom,
			SmoothMs:       cfg.Camera.SmoothMs,
		},
		Speed:     cfg.Playback.Speed,
		NoAutoFit: !cfg.AutoFit(),
		Logger:    logger,
	})
	defer p.Destroy()

	var replayErr error
	p.Events().Error.Add(func(e timeline.ErrorEvent) {
		replayErr = e.Err
		cancel()
	})
	p.Events().Frame.Add(func(e timeline.FrameEvent) { res.Frames[e.TrackID]++ })
	p.Events().Finish.Add(func(timeline.FinishEvent) {
		res.Finished = true
		cancel()
	})

	p.SetRoute(in)
	if replayErr != nil {
		return nil, replayErr
	}
	res.Route = p.Route()

	tStart := time.Now()
	p.Play()

	switch {
	case !p.IsPlaying():
		logger.Printf("nothing to play")

	case manual != nil:
		step := time.Second / time.Duration(cfg.Playback.FPS)
		// Twice the expected number of ticks, as a backstop
		maxTicks := 2*int(float64(p.DurationMs())/cfg.Playback.Speed/float64(step/time.Millisecond)) + 10
		for n := 0; ctx.Err() == nil && n < maxTicks && p.IsPlaying(); n++ {
			manual.Advance(step)
		}

	default:
		if err := ticker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return res, err
		}
	}
	res.Ticks = ts.ticks
	res.Elapsed = time.Since(tStart)

	if replayErr != nil {
		return res, replayErr
	}
	if cfg.Output.PDF != "" {
		if err := writePDF(res.Trail, cfg.Output.PDF, cfg.Route.File); err != nil {
			return res, err
		}
		logger.Printf("wrote %s", cfg.Output.PDF)
	}
	return res, nil
}

// }}}

func writePDF(tr *fpdf.TrailRenderer, path, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tr.WritePDF(f, title); err != nil {
		f.Close()
		return fmt.Errorf("pdf %s: %w", path, err)
	}
	return f.Close()
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
