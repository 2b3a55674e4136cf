// Package dl implements the description-length primitives shared by every
// onset model: guarded logarithms, Bernoulli code lengths and quantization
// of probability parameters to a finite precision.
package dl

import "math"

// SafeLog2 returns log2(x). A non-finite result (x <= 0) is replaced by 0 and
// reported as a warning.
func SafeLog2(x float64) float64 {
	res := math.Log2(x)
	if math.IsInf(res, 0) || math.IsNaN(res) {
		warnNonFinite(x)
		return 0
	}
	return res
}

// BernoulliCost is the number of bits needed to encode n1 ones among n binary
// draws with a Bernoulli(p) code.
//
// A degenerate p (0 or 1) costs nothing while every draw agrees with it and
// is infinite as soon as one contrary outcome has to be encoded.
func BernoulliCost(p float64, n, n1 int) float64 {
	if n == 0 {
		return 0
	}
	switch p {
	case 0:
		if n1 == 0 {
			return 0
		}
		return math.Inf(1)
	case 1:
		if n1 == n {
			return 0
		}
		return math.Inf(1)
	}
	ones := float64(n1)
	zeros := float64(n - n1)
	return -(ones*SafeLog2(p) + zeros*SafeLog2(1-p))
}

// QuantizeParameter picks the value of the grid {k/d : k/d < 1} that encodes
// n1 ones among n draws in the fewest bits. Only the two grid points
// bracketing p are candidates; the nearest in value is not always the
// cheapest. On equal cost the point nearer to p wins, then the lower one.
func QuantizeParameter(d, p float64, n, n1 int) float64 {
	if p == 0 || p == 1 {
		return p
	}

	step := 1 / d
	k := math.Floor(p * d)
	// p*d can land just below an integer when p already sits on the grid
	if (k+1)*step <= p {
		k++
	}
	lo := k * step
	hi := (k + 1) * step
	if hi >= 1 {
		return lo
	}

	loCost := BernoulliCost(lo, n, n1)
	hiCost := BernoulliCost(hi, n, n1)
	switch {
	case loCost < hiCost:
		return lo
	case hiCost < loCost:
		return hi
	case hi-p < p-lo:
		return hi
	default:
		return lo
	}
}

// ModelCost is the number of bits needed to transmit params parameters and
// the precision itself, each at precision d.
func ModelCost(params int, d float64) float64 {
	return float64(params+1) * math.Log2(d)
}

// PerMeasure normalizes a total description length to bits per measure.
func PerMeasure(dataCost, modelCost float64, measures int) float64 {
	return (dataCost + modelCost) / float64(measures)
}
