package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatlab/internal/pde"
)

const (
	DefaultNx     = 41
	DefaultLength = 1.0
	DefaultAlpha  = 0.01
	DefaultDt     = 0.001
	DefaultTmax   = 1.0
	DefaultSpeed  = 5
	DefaultFPS    = 30
)

type Config struct {
	Dim    string  `yaml:"dim"`
	Method string  `yaml:"method"`
	Nx     int     `yaml:"nx"`
	Length float64 `yaml:"length"`
	Alpha  float64 `yaml:"alpha"`
	Dt     float64 `yaml:"dt"`
	Tmax   float64 `yaml:"tmax"`
	// Speed is the number of engine steps taken per animation tick. It is
	// a display batching knob only and does not change the numerics.
	Speed int `yaml:"speed"`
	FPS   int `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Dim:    pde.Dim1D,
		Method: "explicit",
		Nx:     DefaultNx,
		Length: DefaultLength,
		Alpha:  DefaultAlpha,
		Dt:     DefaultDt,
		Tmax:   DefaultTmax,
		Speed:  DefaultSpeed,
		FPS:    DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params maps the config onto the engine parameter set. Validation happens
// at Configure time, not here.
func (c *Config) Params() pde.Params {
	return pde.Params{
		Dim:    c.Dim,
		Method: c.Method,
		Nx:     c.Nx,
		Length: c.Length,
		Alpha:  c.Alpha,
		Dt:     c.Dt,
		Tmax:   c.Tmax,
	}
}
