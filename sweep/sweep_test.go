package sweep

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/mdl"
	"github.com/jsphweid/mdlfit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fourFour = mdl.Config{Signature: "4/4", BeatSubdivisions: 2}

func corpus() model.Dataset {
	return model.Dataset{
		{Name: "one", Dataset: "corpus", Measures: []model.Measure{
			{1, 0, 1, 1, 1, 0, 1, 0},
			{1, 0, 0, 0, 1, 1, 1, 0},
			{1, 1, 1, 0, 0, 0, 1, 0},
			{1, 0, 0, 0, 0, 0, 0, 0},
		}},
		{Name: "two", Dataset: "corpus", Measures: []model.Measure{
			{0, 0, 1, 0, 1, 0, 1, 1},
			{1, 0, 1, 0, 1, 0, 0, 0},
			{1, 0, 0, 1, 0, 0, 1, 0},
		}},
	}
}

func TestPowersOfTwo(t *testing.T) {
	t.Parallel()

	grid, err := PowersOfTwo(1, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 8, 16, 32}, grid)

	_, err = PowersOfTwo(4, 2)
	_, ok := errors.Unwrap(err).(InvalidGridError)
	assert.True(t, ok)

	_, err = PowersOfTwo(0, 2)
	_, ok = errors.Unwrap(err).(InvalidGridError)
	assert.True(t, ok)
}

func TestArgMin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		values   []float64
		expected int
	}{
		{"single", []float64{3}, 0},
		{"first wins on ties", []float64{3, 1, 2, 1}, 1},
		{"all equal", []float64{2, 2, 2}, 0},
		{"skips NaN", []float64{math.NaN(), 5, 4}, 2},
		{"infinity loses", []float64{math.Inf(1), 7}, 1},
		{"empty", nil, -1},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, c.expected, ArgMin(c.values))
		})
	}
}

func TestSweepMatchesIndividualFits(t *testing.T) {
	t.Parallel()

	grid, err := PowersOfTwo(1, 6)
	require.NoError(t, err)

	res, err := NewSelector(3).Sweep(context.Background(), corpus(), mdl.PerLevel, fourFour, grid)
	require.NoError(t, err)
	require.Len(t, res.Points, len(grid))

	for i, d := range grid {
		d := d
		cfg := fourFour
		cfg.Precision = &d
		m, err := mdl.New(mdl.PerLevel, corpus(), cfg)
		require.NoError(t, err)
		assert.Equal(t, d, res.Points[i].Precision)
		assert.InDelta(t, m.DL(), res.Points[i].BitsPerMeasure, 1e-12)
	}

	for _, p := range res.Points {
		assert.GreaterOrEqual(t, p.BitsPerMeasure, res.MinDL)
	}
	assert.Equal(t, grid[res.Best], res.OptimalPrecision)
	assert.Equal(t, res.MinDL, res.BestModel.DL())
	assert.False(t, res.BestModel.Precision.Default)
	assert.GreaterOrEqual(t, int64(res.Elapsed), int64(0))
}

func TestSweepGlobalOnTinyDataset(t *testing.T) {
	t.Parallel()

	ds := model.Dataset{
		{Name: "a", Dataset: "tiny", Measures: []model.Measure{{1, 0, 1, 0, 1, 0, 1, 0}}},
		{Name: "b", Dataset: "tiny", Measures: []model.Measure{{1, 0, 0, 0, 1, 0, 0, 0}}},
	}
	// 6 onsets in 16 positions; 0.375 lies on the grid from d=8 on, and
	// below that 0.5 is the cheapest transmittable value
	exact := -(6*math.Log2(0.375) + 10*math.Log2(0.625))
	expected := []Point{
		{Precision: 2, BitsPerMeasure: (16 + 2) / 2.0},
		{Precision: 4, BitsPerMeasure: (16 + 4) / 2.0},
		{Precision: 8, BitsPerMeasure: (exact + 6) / 2},
		{Precision: 16, BitsPerMeasure: (exact + 8) / 2},
	}

	res, err := NewSelector(2).Sweep(context.Background(), ds, mdl.Global, fourFour, []float64{2, 4, 8, 16})
	require.NoError(t, err)
	require.Len(t, res.Points, len(expected))
	for i, p := range expected {
		assert.Equal(t, p.Precision, res.Points[i].Precision)
		assert.InDelta(t, p.BitsPerMeasure, res.Points[i].BitsPerMeasure, 1e-9)
	}
	assert.InDelta(t, 10.635472, res.Points[2].BitsPerMeasure, 1e-6)

	assert.Equal(t, 0, res.Best)
	assert.Equal(t, 2.0, res.OptimalPrecision)
	assert.InDelta(t, 9.0, res.MinDL, 1e-12)
	assert.Equal(t, []float64{0.5}, res.BestModel.Quantized)
	assert.Equal(t, []float64{0.375}, res.BestModel.Ratios)
}

func TestSweepIsDeterministic(t *testing.T) {
	t.Parallel()

	grid, err := PowersOfTwo(1, 8)
	require.NoError(t, err)

	first, err := NewSelector(1).Sweep(context.Background(), corpus(), mdl.HierarchicalByPosition, fourFour, grid)
	require.NoError(t, err)
	second, err := NewSelector(8).Sweep(context.Background(), corpus(), mdl.HierarchicalByPosition, fourFour, grid)
	require.NoError(t, err)

	assert.Equal(t, first.Points, second.Points)
	assert.Equal(t, first.Best, second.Best)
}

func TestSweepFirstPrecisionWinsOnTies(t *testing.T) {
	t.Parallel()

	// an all-onset dataset has a degenerate ratio, so every precision
	// costs nothing but the model bits; a repeated precision must tie
	ds := model.Dataset{{Name: "full", Measures: []model.Measure{{1, 1, 1, 1, 1, 1, 1, 1}}}}
	res, err := NewSelector(2).Sweep(context.Background(), ds, mdl.Global, fourFour, []float64{4, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Best)
	assert.Equal(t, 2.0, res.OptimalPrecision)
}

func TestSweepErrors(t *testing.T) {
	t.Parallel()

	_, err := NewSelector(1).Sweep(context.Background(), corpus(), mdl.Global, fourFour, nil)
	_, ok := errors.Unwrap(err).(InvalidGridError)
	assert.True(t, ok)

	_, err = NewSelector(1).Sweep(context.Background(), corpus(), mdl.Name("Nope"), fourFour, []float64{2})
	_, ok = errors.Unwrap(err).(mdl.UnknownModelError)
	assert.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewSelector(1).Sweep(ctx, corpus(), mdl.Global, fourFour, []float64{2, 4})
	assert.Error(t, err)
}

func TestCompareSelectsMinimum(t *testing.T) {
	t.Parallel()

	grid, err := PowersOfTwo(1, 6)
	require.NoError(t, err)

	cmp, err := NewSelector(4).Compare(context.Background(), corpus(), mdl.Names, fourFour, grid)
	require.NoError(t, err)
	require.Len(t, cmp.Results, len(mdl.Names))

	for i, r := range cmp.Results {
		assert.Equal(t, mdl.Names[i], r.Model)
		assert.GreaterOrEqual(t, r.MinDL, cmp.BestResult().MinDL)
		if i < cmp.Best {
			assert.Greater(t, r.MinDL, cmp.BestResult().MinDL)
		}
	}

	report := cmp.Report()
	assert.Equal(t, string(cmp.BestResult().Model), report.BestModel)
	assert.Len(t, report.Sweeps, len(mdl.Names))
}

func TestCompareRequiresModels(t *testing.T) {
	t.Parallel()

	_, err := NewSelector(1).Compare(context.Background(), corpus(), nil, fourFour, []float64{2})
	_, ok := errors.Unwrap(err).(NoModelsError)
	assert.True(t, ok)
}

func TestShow(t *testing.T) {
	t.Parallel()

	grid, err := PowersOfTwo(1, 3)
	require.NoError(t, err)
	res, err := NewSelector(1).Sweep(context.Background(), corpus(), mdl.Global, fourFour, grid)
	require.NoError(t, err)

	var buf bytes.Buffer
	res.Show(&buf, 60)
	assert.Contains(t, buf.String(), "Optimal precision")
	assert.Contains(t, buf.String(), "Global")

	cmp := &Comparison{Results: []*Result{res}, Best: 0}
	buf.Reset()
	cmp.Show(&buf, 60)
	assert.Contains(t, buf.String(), "description length")
}
