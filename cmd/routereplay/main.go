// routereplay replays a recorded route file against the wall clock (or as fast as possible,
// with -simulate), logging marker positions and optionally plotting the trails to a PDF.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/skypies/routereplay/config"
	"github.com/skypies/routereplay/routeio"
)

var (
	fConfig   string
	fRoute    string
	fPDF      string
	fSpeed    float64
	fSimulate bool
	fVerbose  bool
)

func init() {
	flag.StringVar(&fConfig, "config", "", "YAML config file (optional)")
	flag.StringVar(&fRoute, "route", "", "route file (.json or .geojson); overrides route.file")
	flag.StringVar(&fPDF, "pdf", "", "write the trails to this PDF when done; overrides output.pdf")
	flag.Float64Var(&fSpeed, "speed", 0, "playback speed multiplier; overrides playback.speed")
	flag.BoolVar(&fSimulate, "simulate", false, "don't wait for the wall clock")
	flag.BoolVar(&fVerbose, "v", false, "log camera moves")
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if fConfig != "" {
		c, err := config.Load(fConfig)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	if fRoute != "" {
		cfg.Route.File = fRoute
	}
	if fPDF != "" {
		cfg.Output.PDF = fPDF
	}
	if fSpeed != 0 {
		cfg.Playback.Speed = fSpeed
	}
	if fSimulate {
		cfg.Output.Simulate = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	in, err := routeio.ReadFile(cfg.Route.File, cfg.Route.Format)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runReplay(ctx, cfg, in, log.Default())
	if err != nil {
		log.Fatalf("replay: %v", err)
	}
	fmt.Print(res)
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
