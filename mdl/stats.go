package mdl

import (
	"github.com/jsphweid/mdlfit/dl"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
)

// Tally counts how often a bucket occurred and how many of those occurrences
// carried an onset.
type Tally struct {
	Occurrences int
	Onsets      int
}

func (t *Tally) Add(onset bool) {
	t.Occurrences++
	if onset {
		t.Onsets++
	}
}

// Ratio is the maximum likelihood onset probability, 0 for an empty bucket.
func (t Tally) Ratio() float64 {
	if t.Occurrences == 0 {
		return 0
	}
	return float64(t.Onsets) / float64(t.Occurrences)
}

// Param is one free parameter of a model together with its counts.
type Param struct {
	Label string
	Tally
}

// Stats are the sufficient statistics of a fitted model. They depend on the
// dataset only, never on the precision.
type Stats struct {
	Name     Name
	Dataset  string
	Grid     *meter.Grid
	Pieces   int
	GridSize int
	// N is the total number of grid positions in the dataset
	N        int
	Onsets   int
	Measures int
	Params   []Param

	// set by the hierarchical models only
	Anchors *AnchorTable
}

func summarize(name Name, ds model.Dataset, g *meter.Grid) Stats {
	s := Stats{
		Name:     name,
		Dataset:  model.DatasetName(ds),
		Grid:     g,
		Pieces:   len(ds),
		GridSize: g.Size(),
	}
	for _, p := range ds {
		for _, m := range p.Measures {
			s.Onsets += model.Onsets(m)
		}
		s.Measures += len(p.Measures)
	}
	s.N = s.Measures * s.GridSize
	return s
}

// Estimates returns the maximum likelihood estimate of every parameter.
func (s Stats) Estimates() []float64 {
	res := make([]float64, len(s.Params))
	for i, p := range s.Params {
		res[i] = p.Ratio()
	}
	return res
}

// Evaluation is the description length of a set of statistics at one
// precision.
type Evaluation struct {
	Precision Precision
	Ratios    []float64

	// Quantized holds the transmitted parameter values. It equals Ratios for
	// a default precision.
	Quantized      []float64
	DataCost       float64
	ModelCost      float64
	BitsPerMeasure float64
}

// Evaluate scores s at precision p. It does not modify s.
func Evaluate(s Stats, p Precision) Evaluation {
	ratios := s.Estimates()
	quantized := make([]float64, len(ratios))
	for i, r := range ratios {
		if p.Default {
			quantized[i] = r
			continue
		}
		quantized[i] = dl.QuantizeParameter(p.Value, r, s.Params[i].Occurrences, s.Params[i].Onsets)
	}

	var dataCost float64
	for i, param := range s.Params {
		dataCost += dl.BernoulliCost(quantized[i], param.Occurrences, param.Onsets)
	}
	modelCost := dl.ModelCost(len(s.Params), p.Value)

	return Evaluation{
		Precision:      p,
		Ratios:         ratios,
		Quantized:      quantized,
		DataCost:       dataCost,
		ModelCost:      modelCost,
		BitsPerMeasure: dl.PerMeasure(dataCost, modelCost, s.Measures),
	}
}

// Model is a fitted and scored model. It is never modified after
// construction.
type Model struct {
	Stats
	Evaluation
}

func FromStats(s Stats, p Precision) *Model {
	return &Model{Stats: s, Evaluation: Evaluate(s, p)}
}

func (m *Model) NumParameters() int {
	return len(m.Params)
}

// DL is the description length in bits per measure.
func (m *Model) DL() float64 {
	return m.BitsPerMeasure
}
