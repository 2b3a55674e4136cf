// Package meter holds the metrical level tables and the neighbour structure
// derived from them.
//
// Levels grow with structural weight: the downbeat carries the largest value
// and the most frequent subdivision carries 1.
package meter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gruntwork-io/go-commons/errors"
	"golang.org/x/exp/slices"
)

// Config names one metrical configuration.
type Config struct {
	Signature        string
	BeatSubdivisions int
}

func (c Config) String() string {
	return fmt.Sprintf("%s:%d", c.Signature, c.BeatSubdivisions)
}

var levelTable = map[Config][]int{
	{"4/4", 2}: {4, 1, 2, 1, 3, 1, 2, 1},
	{"4/4", 4}: {5, 1, 2, 1, 3, 1, 2, 1, 4, 1, 2, 1, 3, 1, 2, 1},
	{"2/4", 2}: {3, 1, 2, 1},
	{"2/4", 4}: {4, 1, 2, 1, 3, 1, 2, 1},
}

type NotImplementedError struct {
	Signature    string
	Subdivisions int
}

func (e NotImplementedError) Error() string {
	return fmt.Sprintf("metric levels not implemented for signature %s with %d subdivisions per beat", e.Signature, e.Subdivisions)
}

// IsNotImplemented reports whether err signals an unsupported metrical
// configuration. Callers may skip that configuration and carry on.
func IsNotImplemented(err error) bool {
	_, ok := errors.Unwrap(err).(NotImplementedError)
	return ok
}

type InvalidSignatureError struct {
	Signature string
}

func (e InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid time signature %q, expected N/D", e.Signature)
}

// ParseSignature splits an "N/D" time signature.
func ParseSignature(signature string) (int, int, error) {
	parts := strings.Split(signature, "/")
	if len(parts) != 2 {
		return 0, 0, errors.WithStackTrace(InvalidSignatureError{Signature: signature})
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || num <= 0 {
		return 0, 0, errors.WithStackTrace(InvalidSignatureError{Signature: signature})
	}
	denom, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || denom <= 0 {
		return 0, 0, errors.WithStackTrace(InvalidSignatureError{Signature: signature})
	}
	return num, denom, nil
}

// Levels returns the metrical level of every grid position of a measure.
// The returned slice is a copy and may be modified by the caller.
func Levels(signature string, beatSubdivisions int) ([]int, error) {
	levels, ok := levelTable[Config{signature, beatSubdivisions}]
	if !ok {
		return nil, errors.WithStackTrace(NotImplementedError{Signature: signature, Subdivisions: beatSubdivisions})
	}
	res := make([]int, len(levels))
	copy(res, levels)
	return res, nil
}

// GridSize is the number of grid positions per measure: numerator times
// subdivisions per beat.
func GridSize(signature string, beatSubdivisions int) (int, error) {
	num, _, err := ParseSignature(signature)
	if err != nil {
		return 0, err
	}
	return num * beatSubdivisions, nil
}

// Supported lists every configuration with a level table.
func Supported() []Config {
	res := make([]Config, 0, len(levelTable))
	for c := range levelTable {
		res = append(res, c)
	}
	slices.SortFunc(res, func(a, b Config) bool {
		return a.String() < b.String()
	})
	return res
}
