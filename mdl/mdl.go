// Package mdl fits the family of onset models to a dataset of binary measure
// grids and scores them by description length.
package mdl

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/logger"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
	"github.com/sirupsen/logrus"
)

type Name string

const (
	Global                 Name = "Global"
	PerLevel               Name = "PerLevel"
	PerPosition            Name = "PerPosition"
	HierarchicalByLevel    Name = "HierarchicalByLevel"
	HierarchicalByPosition Name = "HierarchicalByPosition"
)

// Names lists every model in order of increasing refinement.
var Names = []Name{Global, PerLevel, PerPosition, HierarchicalByLevel, HierarchicalByPosition}

// names used by the original corpus scripts
var aliases = map[string]Name{
	"Bernoulli":           Global,
	"Position":            PerLevel,
	"RefinedPosition":     PerPosition,
	"Hierarchical":        HierarchicalByLevel,
	"RefinedHierarchical": HierarchicalByPosition,
}

type UnknownModelError struct {
	Name string
}

func (e UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Name)
}

// ParseName accepts a model name or one of its legacy aliases.
func ParseName(s string) (Name, error) {
	if _, ok := registry[Name(s)]; ok {
		return Name(s), nil
	}
	if name, ok := aliases[s]; ok {
		return name, nil
	}
	return "", errors.WithStackTrace(UnknownModelError{Name: s})
}

// Fitter reduces a dataset to the sufficient statistics of one model.
// Implementations hold no state and are safe for concurrent use.
type Fitter interface {
	Name() Name
	Fit(ds model.Dataset, g *meter.Grid) Stats
}

var registry = map[Name]Fitter{
	Global:                 globalFitter{},
	PerLevel:               levelFitter{},
	PerPosition:            positionFitter{},
	HierarchicalByLevel:    anchoredFitter{byLevel: true},
	HierarchicalByPosition: anchoredFitter{byLevel: false},
}

func Lookup(name Name) (Fitter, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.WithStackTrace(UnknownModelError{Name: string(name)})
	}
	return f, nil
}

// Config selects the metrical grid and, optionally, the precision. A nil
// Precision means the default sqrt(n).
type Config struct {
	Signature        string
	BeatSubdivisions int
	Precision        *float64
}

// Fit validates the dataset against the configured grid and computes the
// sufficient statistics of the named model. Unsupported metrical
// configurations are reported before anything is fitted.
func Fit(name Name, ds model.Dataset, cfg Config) (Stats, error) {
	fitter, err := Lookup(name)
	if err != nil {
		return Stats{}, err
	}
	g, err := meter.NewGrid(cfg.Signature, cfg.BeatSubdivisions)
	if err != nil {
		return Stats{}, err
	}
	gridSize, err := model.ValidateDataset(ds)
	if err != nil {
		return Stats{}, err
	}
	if err := g.Check(gridSize); err != nil {
		return Stats{}, err
	}

	stats := fitter.Fit(ds, g)
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"model":      name,
		"pieces":     stats.Pieces,
		"measures":   stats.Measures,
		"parameters": len(stats.Params),
	}).Debug("Fitted model")
	return stats, nil
}

// New fits and scores the named model in one step.
func New(name Name, ds model.Dataset, cfg Config) (*Model, error) {
	stats, err := Fit(name, ds, cfg)
	if err != nil {
		return nil, err
	}
	return FromStats(stats, ResolvePrecision(cfg.Precision, stats.N)), nil
}
