package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/mdl"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "mdlfit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "4/4", cfg.Signature)
	assert.Equal(t, 2, cfg.BeatSubdivisions)
	assert.Nil(t, cfg.Precision)
	assert.Len(t, cfg.Models, len(mdl.Names))
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
signature: 2/4
beat_subdivisions: 4
models: [Global, RefinedHierarchical]
precision: 16
sweep:
  max_exponent: 5
dataset:
  name: essen
  dedup: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "2/4", cfg.Signature)
	assert.Equal(t, 4, cfg.BeatSubdivisions)
	require.NotNil(t, cfg.Precision)
	assert.Equal(t, 16.0, *cfg.Precision)
	assert.Equal(t, 1, cfg.Sweep.MinExponent)
	assert.Equal(t, 5, cfg.Sweep.MaxExponent)
	assert.Equal(t, "essen", cfg.Dataset.Name)
	assert.False(t, cfg.Dataset.Dedup)

	names, err := cfg.ModelNames()
	require.NoError(t, err)
	assert.Equal(t, []mdl.Name{mdl.Global, mdl.HierarchicalByPosition}, names)

	mc := cfg.ModelConfig()
	assert.Equal(t, "2/4", mc.Signature)
	assert.Equal(t, 16.0, *mc.Precision)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "signature: [unterminated"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	d := 8.0
	cfg := Default()
	cfg.Precision = &d
	cfg.Dataset.Name = "saved"

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	low := 1.5
	cases := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"no dataset name", func(c *Config) { c.Dataset.Name = "" }, "dataset.name"},
		{"no models", func(c *Config) { c.Models = nil }, "models"},
		{"precision below two", func(c *Config) { c.Precision = &low }, "precision"},
		{"min exponent zero", func(c *Config) { c.Sweep.MinExponent = 0 }, "sweep.min_exponent"},
		{"inverted sweep", func(c *Config) { c.Sweep.MinExponent = 6; c.Sweep.MaxExponent = 3 }, "sweep"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			c.mutate(cfg)
			err := cfg.Validate()
			cfgErr, ok := errors.Unwrap(err).(InvalidConfigError)
			require.True(t, ok)
			assert.Equal(t, c.field, cfgErr.Field)
		})
	}
}

func TestValidateRejectsUnknownModelAndMeter(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Models = []string{"Global", "Markov"}
	_, ok := errors.Unwrap(cfg.Validate()).(mdl.UnknownModelError)
	assert.True(t, ok)

	cfg = Default()
	cfg.Signature = "3/4"
	assert.True(t, meter.IsNotImplemented(cfg.Validate()))
}
