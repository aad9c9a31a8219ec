package config

// PlaybackConfig controls the clock.
type PlaybackConfig struct {
	FPS     int     `yaml:"fps" validate:"omitempty,oneof=30 60"`
	Speed   float64 `yaml:"speed" validate:"omitempty,gt=0"`
	AutoFit *bool   `yaml:"autoFit"` // nil means true
}

// CameraConfig controls how the view follows the lead track.
type CameraConfig struct {
	Mode           string  `yaml:"mode" validate:"omitempty,oneof=none center ahead"`
	AheadDistanceM float64 `yaml:"aheadDistanceM" validate:"gte=0"`
	Tilt           float64 `yaml:"tilt" validate:"gte=0,lte=90"`
	Zoom           float64 `yaml:"zoom" validate:"gte=0,lte=22"`
	SmoothMs       float64 `yaml:"smoothMs" validate:"gte=0"`
}

// RouteConfig says where the route data lives.
type RouteConfig struct {
	File   string `yaml:"file" validate:"required"`
	Format string `yaml:"format" validate:"omitempty,oneof=json geojson"` // blank means guess from the file extension
}

// OutputConfig controls what the replay produces.
type OutputConfig struct {
	PDF           string `yaml:"pdf"`
	Simulate      bool   `yaml:"simulate"`
	FrameLogEvery int    `yaml:"frameLogEvery" validate:"gte=0"` // 0 disables frame logging
}

// Config is the root configuration structure
type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Camera   CameraConfig   `yaml:"camera"`
	Route    RouteConfig    `yaml:"route" validate:"required"`
	Output   OutputConfig   `yaml:"output"`
}

func (c Config) AutoFit() bool { return c.Playback.AutoFit == nil || *c.Playback.AutoFit }
