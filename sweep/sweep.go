// Package sweep drives a grid of precisions through the onset models and
// selects the minimum description length.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/logger"
	"github.com/jsphweid/mdlfit/mdl"
	"github.com/jsphweid/mdlfit/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
)

type InvalidGridError struct {
	Reason string
}

func (e InvalidGridError) Error() string {
	return "invalid precision grid: " + e.Reason
}

type NoModelsError struct{}

func (e NoModelsError) Error() string {
	return "no models to compare"
}

// PowersOfTwo returns 2^min, 2^(min+1), ..., 2^max.
func PowersOfTwo(min, max int) ([]float64, error) {
	if min > max {
		return nil, errors.WithStackTrace(InvalidGridError{Reason: fmt.Sprintf("min exponent %d is above max exponent %d", min, max)})
	}
	if min < 1 {
		return nil, errors.WithStackTrace(InvalidGridError{Reason: "precisions below 2 cannot encode a non-degenerate parameter"})
	}
	res := make([]float64, 0, max-min+1)
	for k := min; k <= max; k++ {
		res = append(res, math.Pow(2, float64(k)))
	}
	return res, nil
}

// ArgMin returns the index of the smallest value; the first one on ties.
func ArgMin(values []float64) int {
	best := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if best == -1 || v < values[best] {
			best = i
		}
	}
	return best
}

type Point struct {
	Precision      float64
	BitsPerMeasure float64
}

// Result is the outcome of sweeping one model over a precision grid.
type Result struct {
	Model  mdl.Name
	Points []Point
	// index into Points of the optimal precision
	Best             int
	OptimalPrecision float64
	MinDL            float64
	BestModel        *mdl.Model
	Elapsed          time.Duration
}

type Comparison struct {
	Results []*Result
	// index into Results of the model with the smallest description length
	Best int
}

func (c *Comparison) BestResult() *Result {
	return c.Results[c.Best]
}

// Selector evaluates models concurrently. The dataset is only read.
type Selector struct {
	Clock   clock.Clock
	Workers int
}

func NewSelector(workers int) *Selector {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Selector{Clock: clock.RealClock{}, Workers: workers}
}

// Sweep fits the named model once and scores it at every precision of grid.
// The precision in cfg is ignored.
func (s *Selector) Sweep(ctx context.Context, ds model.Dataset, name mdl.Name, cfg mdl.Config, grid []float64) (*Result, error) {
	if len(grid) == 0 {
		return nil, errors.WithStackTrace(InvalidGridError{Reason: "empty"})
	}
	start := s.Clock.Now()

	stats, err := mdl.Fit(name, ds, cfg)
	if err != nil {
		return nil, err
	}

	models := make([]*mdl.Model, len(grid))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for i, d := range grid {
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			models[i] = mdl.FromStats(stats, mdl.UserPrecision(d))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	res := &Result{Model: name, Points: make([]Point, len(grid))}
	dls := make([]float64, len(grid))
	for i, m := range models {
		res.Points[i] = Point{Precision: grid[i], BitsPerMeasure: m.DL()}
		dls[i] = m.DL()
	}
	res.Best = ArgMin(dls)
	if res.Best == -1 {
		return nil, errors.WithStackTrace(InvalidGridError{Reason: "no precision produced a finite description length"})
	}
	res.OptimalPrecision = grid[res.Best]
	res.MinDL = dls[res.Best]
	res.BestModel = models[res.Best]
	res.Elapsed = s.Clock.Since(start)

	logger.GetProjectLogger().WithFields(logrus.Fields{
		"model":     name,
		"precision": res.OptimalPrecision,
		"dl":        res.MinDL,
		"elapsed":   res.Elapsed,
	}).Info("Swept precision grid")
	return res, nil
}

// Compare sweeps every named model and selects the one with the smallest
// minimum description length.
func (s *Selector) Compare(ctx context.Context, ds model.Dataset, names []mdl.Name, cfg mdl.Config, grid []float64) (*Comparison, error) {
	if len(names) == 0 {
		return nil, errors.WithStackTrace(NoModelsError{})
	}

	results := make([]*Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			res, err := s.Sweep(ctx, ds, name, cfg, grid)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dls := make([]float64, len(results))
	for i, r := range results {
		dls[i] = r.MinDL
	}
	return &Comparison{Results: results, Best: ArgMin(dls)}, nil
}
