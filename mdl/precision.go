package mdl

import "math"

// Precision is the number of grid points used to transmit each parameter.
type Precision struct {
	Value float64
	// Default is set when the value was derived from the dataset size rather
	// than chosen by the user. Only user precisions quantize the ratios.
	Default bool
}

func ResolvePrecision(user *float64, n int) Precision {
	if user == nil {
		return Precision{Value: math.Sqrt(float64(n)), Default: true}
	}
	return Precision{Value: *user}
}

func UserPrecision(d float64) Precision {
	return Precision{Value: d}
}
