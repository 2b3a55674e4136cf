// Package config loads analysis settings from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/constants"
	"github.com/jsphweid/mdlfit/mdl"
	"github.com/jsphweid/mdlfit/meter"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Signature        string        `yaml:"signature"`
	BeatSubdivisions int           `yaml:"beat_subdivisions"`
	Models           []string      `yaml:"models"`
	Precision        *float64      `yaml:"precision"`
	Sweep            SweepConfig   `yaml:"sweep"`
	Workers          int           `yaml:"workers"`
	Dataset          DatasetConfig `yaml:"dataset"`
}

type SweepConfig struct {
	MinExponent int `yaml:"min_exponent"`
	MaxExponent int `yaml:"max_exponent"`
}

type DatasetConfig struct {
	Name     string `yaml:"name"`
	MediaDir string `yaml:"media_dir"`
	// path of an encoded dataset; empty means derive it from name and meter
	Path     string `yaml:"path"`
	Dedup    bool   `yaml:"dedup"`
	Metadata bool   `yaml:"metadata"`
}

type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Reason)
}

// Default returns the default configuration.
func Default() *Config {
	models := make([]string, len(mdl.Names))
	for i, n := range mdl.Names {
		models[i] = string(n)
	}
	return &Config{
		Signature:        constants.DefaultSignature,
		BeatSubdivisions: constants.DefaultBeatSubdivisions,
		Models:           models,
		Sweep: SweepConfig{
			MinExponent: constants.MinPrecisionExponent,
			MaxExponent: constants.MaxPrecisionExponent,
		},
		Dataset: DatasetConfig{
			Name:     constants.DefaultDatasetName,
			MediaDir: constants.GetMediaDir(),
			Dedup:    true,
		},
	}
}

// Load reads the YAML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when given, otherwise returns the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WithStackTrace(err)
	}
	return errors.WithStackTrace(os.WriteFile(path, data, 0644))
}

func (c *Config) Validate() error {
	if _, err := meter.NewGrid(c.Signature, c.BeatSubdivisions); err != nil {
		return err
	}
	if c.Dataset.Name == "" {
		return errors.WithStackTrace(InvalidConfigError{Field: "dataset.name", Reason: "must not be empty"})
	}
	if len(c.Models) == 0 {
		return errors.WithStackTrace(InvalidConfigError{Field: "models", Reason: "at least one model is required"})
	}
	if _, err := c.ModelNames(); err != nil {
		return err
	}
	if c.Precision != nil && *c.Precision < 2 {
		return errors.WithStackTrace(InvalidConfigError{Field: "precision", Reason: fmt.Sprintf("%g is below 2", *c.Precision)})
	}
	if c.Sweep.MinExponent < 1 {
		return errors.WithStackTrace(InvalidConfigError{Field: "sweep.min_exponent", Reason: "must be at least 1"})
	}
	if c.Sweep.MinExponent > c.Sweep.MaxExponent {
		return errors.WithStackTrace(InvalidConfigError{Field: "sweep", Reason: "min_exponent is above max_exponent"})
	}
	if c.Workers < 0 {
		return errors.WithStackTrace(InvalidConfigError{Field: "workers", Reason: "must not be negative"})
	}
	return nil
}

// ModelNames resolves the configured model names, aliases included.
func (c *Config) ModelNames() ([]mdl.Name, error) {
	res := make([]mdl.Name, len(c.Models))
	for i, s := range c.Models {
		name, err := mdl.ParseName(s)
		if err != nil {
			return nil, err
		}
		res[i] = name
	}
	return res, nil
}

// ModelConfig is the part of c the model family needs.
func (c *Config) ModelConfig() mdl.Config {
	return mdl.Config{
		Signature:        c.Signature,
		BeatSubdivisions: c.BeatSubdivisions,
		Precision:        c.Precision,
	}
}
