package mdl

import (
	"bytes"
	"math"
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fourFour = Config{Signature: "4/4", BeatSubdivisions: 2}

func tinyDataset() model.Dataset {
	return model.Dataset{
		{Name: "a", Dataset: "tiny", Measures: []model.Measure{{1, 0, 1, 0, 1, 0, 1, 0}}},
		{Name: "b", Dataset: "tiny", Measures: []model.Measure{{1, 0, 0, 0, 1, 0, 0, 0}}},
	}
}

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
		{Name: "three", Dataset: "corpus", Measures: []model.Measure{
			{1, 1, 0, 1, 0, 1, 1, 0},
			{0, 0, 0, 0, 1, 0, 0, 0},
		}},
	}
}

func withPrecision(cfg Config, d float64) Config {
	cfg.Precision = &d
	return cfg
}

func TestGlobalOnTinyDataset(t *testing.T) {
	t.Parallel()

	m, err := New(Global, tinyDataset(), fourFour)
	require.NoError(t, err)

	assert.Equal(t, 16, m.N)
	assert.Equal(t, 6, m.Onsets)
	assert.Equal(t, 2, m.Measures)
	assert.Equal(t, 2, m.Pieces)
	assert.Equal(t, "tiny", m.Dataset)
	assert.Equal(t, []float64{0.375}, m.Ratios)

	expectedData := -(6*math.Log2(0.375) + 10*math.Log2(0.625))
	assert.True(t, m.Precision.Default)
	assert.Equal(t, 4.0, m.Precision.Value)
	assert.InDelta(t, expectedData, m.DataCost, 1e-12)
	assert.InDelta(t, 15.270944, m.DataCost, 1e-6)
	assert.Equal(t, 4.0, m.ModelCost)
	assert.InDelta(t, (expectedData+4)/2, m.DL(), 1e-12)
	assert.InDelta(t, 9.635472, m.DL(), 1e-6)
}

func TestParameterCounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     Name
		cfg      Config
		expected int
	}{
		{Global, fourFour, 1},
		{PerLevel, fourFour, 4},
		{PerPosition, fourFour, 8},
		{HierarchicalByLevel, fourFour, 4*(4-1) + 1},
		{HierarchicalByPosition, fourFour, 4*(8-1) + 1},
	}

	for _, c := range cases {
		c := c
		t.Run(string(c.name), func(t *testing.T) {
			t.Parallel()

			m, err := New(c.name, corpus(), c.cfg)
			require.NoError(t, err)
			assert.Equal(t, c.expected, m.NumParameters())
			assert.InDelta(t, float64(c.expected+1)*math.Log2(m.Precision.Value), m.ModelCost, 1e-12)
		})
	}
}

func TestPerLevelPoolsPositions(t *testing.T) {
	t.Parallel()

	stats, err := Fit(PerLevel, tinyDataset(), fourFour)
	require.NoError(t, err)

	// levels 4 1 2 1 3 1 2 1
	assert.Equal(t, Tally{Occurrences: 8, Onsets: 0}, stats.Params[0].Tally)
	assert.Equal(t, Tally{Occurrences: 4, Onsets: 2}, stats.Params[1].Tally)
	assert.Equal(t, Tally{Occurrences: 2, Onsets: 2}, stats.Params[2].Tally)
	assert.Equal(t, Tally{Occurrences: 2, Onsets: 2}, stats.Params[3].Tally)
	assert.Equal(t, "level 2", stats.Params[1].Label)
}

func TestPerPositionCountsEachPosition(t *testing.T) {
	t.Parallel()

	stats, err := Fit(PerPosition, tinyDataset(), fourFour)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0, 0.5, 0, 1, 0, 0.5, 0}, stats.Estimates())
	for _, p := range stats.Params {
		assert.Equal(t, 2, p.Occurrences)
	}
}

func TestRefinementNeverFitsWorse(t *testing.T) {
	t.Parallel()

	ds := corpus()
	level, err := New(PerLevel, ds, fourFour)
	require.NoError(t, err)
	position, err := New(PerPosition, ds, fourFour)
	require.NoError(t, err)
	global, err := New(Global, ds, fourFour)
	require.NoError(t, err)

	assert.LessOrEqual(t, position.DataCost, level.DataCost+1e-9)
	assert.LessOrEqual(t, level.DataCost, global.DataCost+1e-9)
	assert.GreaterOrEqual(t, position.ModelCost, level.ModelCost)
	assert.GreaterOrEqual(t, global.DataCost, 0.0)

	byLevel, err := New(HierarchicalByLevel, ds, fourFour)
	require.NoError(t, err)
	byPosition, err := New(HierarchicalByPosition, ds, fourFour)
	require.NoError(t, err)
	assert.LessOrEqual(t, byPosition.DataCost, byLevel.DataCost+1e-9)
}

func TestDescriptionLengthsAreFinite(t *testing.T) {
	t.Parallel()

	for _, name := range Names {
		for _, d := range []float64{2, 4, 16, 256} {
			m, err := New(name, corpus(), withPrecision(fourFour, d))
			require.NoError(t, err)
			assert.False(t, math.IsInf(m.DL(), 0) || math.IsNaN(m.DL()), "%s d=%v", name, d)
			assert.False(t, m.Precision.Default)
		}
	}
}

func TestUserPrecisionQuantizesWithoutTouchingEstimates(t *testing.T) {
	t.Parallel()

	stats, err := Fit(PerPosition, corpus(), fourFour)
	require.NoError(t, err)
	before := stats.Estimates()

	eval := Evaluate(stats, UserPrecision(4))
	assert.Equal(t, before, eval.Ratios)
	assert.Equal(t, before, stats.Estimates())
	for i, q := range eval.Quantized {
		if before[i] == 0 || before[i] == 1 {
			assert.Equal(t, before[i], q)
			continue
		}
		assert.InDelta(t, 0, math.Mod(q*4, 1), 1e-9, "quantized %v is off the grid", q)
	}

	again := Evaluate(stats, UserPrecision(4))
	assert.Equal(t, eval, again)
}

func TestDefaultPrecisionKeepsEstimates(t *testing.T) {
	t.Parallel()

	m, err := New(HierarchicalByLevel, corpus(), fourFour)
	require.NoError(t, err)
	assert.Equal(t, m.Ratios, m.Quantized)
	assert.Equal(t, math.Sqrt(float64(m.N)), m.Precision.Value)
}

func TestParseName(t *testing.T) {
	t.Parallel()

	for _, name := range Names {
		parsed, err := ParseName(string(name))
		require.NoError(t, err)
		assert.Equal(t, name, parsed)
	}

	aliases := map[string]Name{
		"Bernoulli":           Global,
		"Position":            PerLevel,
		"RefinedPosition":     PerPosition,
		"Hierarchical":        HierarchicalByLevel,
		"RefinedHierarchical": HierarchicalByPosition,
	}
	for alias, expected := range aliases {
		parsed, err := ParseName(alias)
		require.NoError(t, err)
		assert.Equal(t, expected, parsed, alias)
	}

	_, err := ParseName("Markov")
	require.Error(t, err)
	_, ok := errors.Unwrap(err).(UnknownModelError)
	assert.True(t, ok)
}

func TestUnknownModelYieldsNoModel(t *testing.T) {
	t.Parallel()

	m, err := New(Name("Markov"), tinyDataset(), fourFour)
	assert.Nil(t, m)
	_, ok := errors.Unwrap(err).(UnknownModelError)
	assert.True(t, ok)
}

func TestUnsupportedMeterIsReportedBeforeFitting(t *testing.T) {
	t.Parallel()

	m, err := New(Global, tinyDataset(), Config{Signature: "3/4", BeatSubdivisions: 2})
	assert.Nil(t, m)
	assert.True(t, meter.IsNotImplemented(err))
}

func TestInconsistentGridSizeFailsFast(t *testing.T) {
	t.Parallel()

	ds := tinyDataset()
	ds[1].Measures = append(ds[1].Measures, model.Measure{1, 0, 0, 0})

	_, err := New(PerPosition, ds, fourFour)
	require.Error(t, err)
	mismatch, ok := errors.Unwrap(err).(model.GridSizeMismatchError)
	require.True(t, ok)
	assert.Equal(t, "b", mismatch.Piece)
	assert.Equal(t, 1, mismatch.Measure)
}

func TestGridSizeMustMatchMeter(t *testing.T) {
	t.Parallel()

	_, err := New(Global, tinyDataset(), Config{Signature: "2/4", BeatSubdivisions: 2})
	require.Error(t, err)
	_, ok := errors.Unwrap(err).(meter.GridSizeError)
	assert.True(t, ok)
}

func TestEmptyDataset(t *testing.T) {
	t.Parallel()

	_, err := New(Global, model.Dataset{{Name: "silent"}}, fourFour)
	_, ok := errors.Unwrap(err).(model.EmptyDatasetError)
	assert.True(t, ok)
}

func TestShow(t *testing.T) {
	t.Parallel()

	m, err := New(PerLevel, tinyDataset(), withPrecision(fourFour, 8))
	require.NoError(t, err)

	var buf bytes.Buffer
	m.Show(&buf, 80)
	out := buf.String()
	assert.Contains(t, out, "PerLevel model")
	assert.Contains(t, out, "Precision parameter d (set by user):")
	assert.Contains(t, out, "level 3")

	report := m.Report()
	assert.Equal(t, "PerLevel", report.Model)
	assert.Equal(t, 4, report.NumParameters)
	assert.Len(t, report.Parameters, 4)
	assert.False(t, report.DefaultPrecision)
	assert.Equal(t, m.DL(), report.BitsPerMeasure)
}
