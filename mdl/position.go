package mdl

import (
	"fmt"

	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
)

// levelFitter pools the grid positions that share a metrical level: one
// parameter per level, level 1 first.
type levelFitter struct{}

func (levelFitter) Name() Name {
	return PerLevel
}

func (levelFitter) Fit(ds model.Dataset, g *meter.Grid) Stats {
	s := summarize(PerLevel, ds, g)
	s.Params = make([]Param, g.MaxLevel())
	for i := range s.Params {
		s.Params[i].Label = fmt.Sprintf("level %d", i+1)
	}

	for _, p := range ds {
		for _, m := range p.Measures {
			for pos, v := range m {
				s.Params[g.Levels[pos]-1].Add(v == 1)
			}
		}
	}
	return s
}

// positionFitter keeps one independent parameter per grid position.
type positionFitter struct{}

func (positionFitter) Name() Name {
	return PerPosition
}

func (positionFitter) Fit(ds model.Dataset, g *meter.Grid) Stats {
	s := summarize(PerPosition, ds, g)
	s.Params = make([]Param, g.Size())
	for i := range s.Params {
		s.Params[i].Label = fmt.Sprintf("position %d", i)
	}

	for _, p := range ds {
		for _, m := range p.Measures {
			for pos, v := range m {
				s.Params[pos].Add(v == 1)
			}
		}
	}
	return s
}
