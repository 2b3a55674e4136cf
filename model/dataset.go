package model

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
)

type GridSizeMismatchError struct {
	Piece   string
	Measure int
	Got     int
	Want    int
}

func (e GridSizeMismatchError) Error() string {
	return fmt.Sprintf("piece %q measure %d has %d grid positions, expected %d", e.Piece, e.Measure, e.Got, e.Want)
}

type InvalidOnsetError struct {
	Piece    string
	Measure  int
	Position int
	Value    uint8
}

func (e InvalidOnsetError) Error() string {
	return fmt.Sprintf("piece %q measure %d position %d holds %d, onsets must be 0 or 1", e.Piece, e.Measure, e.Position, e.Value)
}

type EmptyDatasetError struct{}

func (e EmptyDatasetError) Error() string {
	return "dataset contains no measures"
}

// ValidateDataset checks that every measure of every piece has the same
// number of grid positions and only holds 0s and 1s. It returns that shared
// grid size.
func ValidateDataset(ds Dataset) (int, error) {
	gridSize := -1
	for _, p := range ds {
		for i, m := range p.Measures {
			if gridSize == -1 {
				gridSize = len(m)
			}
			if len(m) != gridSize {
				return 0, errors.WithStackTrace(GridSizeMismatchError{Piece: p.Name, Measure: i, Got: len(m), Want: gridSize})
			}
			for pos, v := range m {
				if v > 1 {
					return 0, errors.WithStackTrace(InvalidOnsetError{Piece: p.Name, Measure: i, Position: pos, Value: v})
				}
			}
		}
	}
	if gridSize <= 0 {
		return 0, errors.WithStackTrace(EmptyDatasetError{})
	}
	return gridSize, nil
}
