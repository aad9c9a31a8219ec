// Package config loads and validates the YAML configuration for a route replay.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS            = 60
	DefaultSpeed          = 1.0
	DefaultCameraMode     = "center"
	DefaultAheadDistanceM = 100.0
	DefaultTilt           = 45.0
	DefaultZoom           = 15.0
	DefaultFrameLogEvery  = 30
)

var validate = validator.New()

// Default is the configuration used when there is no config file; the route file still
// needs to be filled in before it will validate.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	c.Output.FrameLogEvery = DefaultFrameLogEvery
	return c
}

// Load reads, validates and fills in defaults for the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the struct tags, then fills in defaults for anything left blank.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Playback.FPS == 0 {
		c.Playback.FPS = DefaultFPS
	}
	if c.Playback.Speed == 0 {
		c.Playback.Speed = DefaultSpeed
	}
	if c.Camera.Mode == "" {
		c.Camera.Mode = DefaultCameraMode
	}
	if c.Camera.AheadDistanceM == 0 {
		c.Camera.AheadDistanceM = DefaultAheadDistanceM
	}
	if c.Camera.Tilt == 0 {
		c.Camera.Tilt = DefaultTilt
	}
	if c.Camera.Zoom == 0 {
		c.Camera.Zoom = DefaultZoom
	}
}
