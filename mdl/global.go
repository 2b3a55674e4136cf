package mdl

import (
	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
)

// globalFitter is the structureless baseline: a single onset probability
// shared by every grid position.
type globalFitter struct{}

func (globalFitter) Name() Name {
	return Global
}

func (globalFitter) Fit(ds model.Dataset, g *meter.Grid) Stats {
	s := summarize(Global, ds, g)
	s.Params = []Param{{
		Label: "onset",
		Tally: Tally{Occurrences: s.N, Onsets: s.Onsets},
	}}
	return s
}
