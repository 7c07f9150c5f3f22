package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRtol    = 1e-8
	DefaultAtol    = 1e-8
	DefaultT1      = 20.0
	DefaultSamples = 201
)

type Config struct {
	Field    string     `yaml:"field"`
	Scheme   string     `yaml:"scheme"`
	Rtol     float64    `yaml:"rtol"`
	Atol     float64    `yaml:"atol"`
	T0       float64    `yaml:"t0"`
	T1       float64    `yaml:"t1"`
	Samples  int        `yaml:"samples"`
	MaxSteps int        `yaml:"max_steps"`
	Init     InitConfig `yaml:"init"`
}

type InitConfig struct {
	Q []float64 `yaml:"q"`
	P []float64 `yaml:"p"`
}

func DefaultConfig() *Config {
	return &Config{
		Field:   "kepler",
		Scheme:  "leapfrog",
		Rtol:    DefaultRtol,
		Atol:    DefaultAtol,
		T0:      0,
		T1:      DefaultT1,
		Samples: DefaultSamples,
		Init: InitConfig{
			Q: []float64{1, 0},
			P: []float64{0, 1},
		},
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

// Times builds the output time grid, Samples points evenly spaced from T0
// to T1 inclusive.
func (c *Config) Times() []float64 {
	if c.Samples <= 1 {
		return []float64{c.T0}
	}
	ts := make([]float64, c.Samples)
	for i := range ts {
		ts[i] = c.T0 + (c.T1-c.T0)*float64(i)/float64(c.Samples-1)
	}
	return ts
}
