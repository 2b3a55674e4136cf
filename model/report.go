package model

type ParameterReport struct {
	Label       string  `json:"label"`
	Occurrences int     `json:"occurrences"`
	Onsets      int     `json:"onsets"`
	Ratio       float64 `json:"ratio"`
	Quantized   float64 `json:"quantized"`
}

// Report is the presentation form of a fitted model.
type Report struct {
	Model            string            `json:"model"`
	Dataset          string            `json:"dataset"`
	Pieces           int               `json:"pieces"`
	GridSize         int               `json:"grid_size"`
	Positions        int               `json:"positions"`
	Measures         int               `json:"measures"`
	Onsets           int               `json:"onsets"`
	Precision        float64           `json:"precision"`
	DefaultPrecision bool              `json:"default_precision"`
	NumParameters    int               `json:"num_parameters"`
	DataCost         float64           `json:"data_cost"`
	ModelCost        float64           `json:"model_cost"`
	BitsPerMeasure   float64           `json:"bits_per_measure"`
	Parameters       []ParameterReport `json:"parameters"`
}

type SweepPoint struct {
	Precision      float64 `json:"precision"`
	BitsPerMeasure float64 `json:"bits_per_measure"`
}

type SweepReport struct {
	Model             string       `json:"model"`
	Points            []SweepPoint `json:"points"`
	OptimalPrecision  float64      `json:"optimal_precision"`
	MinBitsPerMeasure float64      `json:"min_bits_per_measure"`
	Best              Report       `json:"best"`
}

type CompareReport struct {
	BestModel string        `json:"best_model"`
	Sweeps    []SweepReport `json:"sweeps"`
}
