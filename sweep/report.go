package sweep

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/mdlfit/model"
)

func (r *Result) Report() model.SweepReport {
	points := make([]model.SweepPoint, len(r.Points))
	for i, p := range r.Points {
		points[i] = model.SweepPoint{Precision: p.Precision, BitsPerMeasure: p.BitsPerMeasure}
	}
	return model.SweepReport{
		Model:             string(r.Model),
		Points:            points,
		OptimalPrecision:  r.OptimalPrecision,
		MinBitsPerMeasure: r.MinDL,
		Best:              r.BestModel.Report(),
	}
}

func (c *Comparison) Report() model.CompareReport {
	sweeps := make([]model.SweepReport, len(c.Results))
	for i, r := range c.Results {
		sweeps[i] = r.Report()
	}
	return model.CompareReport{BestModel: string(c.BestResult().Model), Sweeps: sweeps}
}

// Show writes the precision table followed by the optimal model.
func (r *Result) Show(w io.Writer, width int) {
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "Selection of optimal precision value for the %s model\n\n", r.Model)
	fmt.Fprintf(w, "%12s%24s\n", "precision", "description length")
	for i, p := range r.Points {
		marker := ""
		if i == r.Best {
			marker = "  *"
		}
		fmt.Fprintf(w, "%12g%24.6f%s\n", p.Precision, p.BitsPerMeasure, marker)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Optimal precision: %g\n", r.OptimalPrecision)
	fmt.Fprintf(w, "Minimum description length: %.6f\n\n", r.MinDL)
	r.BestModel.Show(w, width)
	fmt.Fprintln(w, strings.Repeat("=", width))
}

// Show writes one row per model with its optimal precision.
func (c *Comparison) Show(w io.Writer, width int) {
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "%-26s%12s%12s%24s\n", "model", "parameters", "precision", "description length")
	for i, r := range c.Results {
		marker := ""
		if i == c.Best {
			marker = "  *"
		}
		fmt.Fprintf(w, "%-26s%12d%12g%24.6f%s\n", r.Model, r.BestModel.NumParameters(), r.OptimalPrecision, r.MinDL, marker)
	}
	fmt.Fprintln(w, strings.Repeat("=", width))
}
