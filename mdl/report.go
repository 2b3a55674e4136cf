package mdl

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/mdlfit/model"
)

func (m *Model) Report() model.Report {
	params := make([]model.ParameterReport, len(m.Params))
	for i, p := range m.Params {
		params[i] = model.ParameterReport{
			Label:       p.Label,
			Occurrences: p.Occurrences,
			Onsets:      p.Onsets,
			Ratio:       m.Ratios[i],
			Quantized:   m.Quantized[i],
		}
	}
	return model.Report{
		Model:            string(m.Name),
		Dataset:          m.Dataset,
		Pieces:           m.Pieces,
		GridSize:         m.GridSize,
		Positions:        m.N,
		Measures:         m.Measures,
		Onsets:           m.Onsets,
		Precision:        m.Precision.Value,
		DefaultPrecision: m.Precision.Default,
		NumParameters:    m.NumParameters(),
		DataCost:         m.DataCost,
		ModelCost:        m.ModelCost,
		BitsPerMeasure:   m.BitsPerMeasure,
		Parameters:       params,
	}
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}

// row prints label flush left and value flush right within width.
func row(w io.Writer, width int, label, value string) {
	pad := width - len(label) - len(value)
	if pad < 1 {
		pad = 1
	}
	fmt.Fprintf(w, "%s%s%s\n", label, strings.Repeat(" ", pad), value)
}

// Show writes a console summary of the model.
func (m *Model) Show(w io.Writer, width int) {
	fmt.Fprintln(w, center(string(m.Name)+" model", width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, center("Dataset", width))
	fmt.Fprintln(w)
	row(w, width, "Dataset name:", m.Dataset)
	row(w, width, "Number of pieces:", fmt.Sprint(m.Pieces))
	row(w, width, "Number of grid positions per measure:", fmt.Sprint(m.GridSize))
	row(w, width, "Number of measures:", fmt.Sprint(m.Measures))
	row(w, width, "Total number of grid positions:", fmt.Sprint(m.N))
	fmt.Fprintln(w)

	fmt.Fprintln(w, center("Description length", width))
	fmt.Fprintln(w)
	precisionLabel := "Precision parameter d (set by user):"
	if m.Precision.Default {
		precisionLabel = "Precision parameter d (default value):"
	}
	row(w, width, precisionLabel, fmt.Sprintf("%.4f", m.Precision.Value))
	row(w, width, "Number of parameters:", fmt.Sprint(m.NumParameters()))
	row(w, width, "Data cost (bits):", fmt.Sprintf("%.6f", m.DataCost))
	row(w, width, "Model cost (bits):", fmt.Sprintf("%.6f", m.ModelCost))
	row(w, width, "Description length per measure (bits):", fmt.Sprintf("%.6f", m.BitsPerMeasure))
	fmt.Fprintln(w)

	fmt.Fprintln(w, center("Model parameters", width))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-24s%12s%10s%12s%12s\n", "parameter", "locations", "onsets", "ratio", "quantized")
	for i, p := range m.Params {
		fmt.Fprintf(w, "%-24s%12d%10d%12.6f%12.6f\n", p.Label, p.Occurrences, p.Onsets, m.Ratios[i], m.Quantized[i])
	}
	fmt.Fprintln(w)
}
