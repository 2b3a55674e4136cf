package meter

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/util"
)

// Grid is the immutable metrical description of one (signature,
// subdivisions) configuration.
type Grid struct {
	Signature        string
	BeatSubdivisions int
	Levels           []int
	Neighbors        []Neighbor
}

type GridSizeError struct {
	Signature        string
	BeatSubdivisions int
	Got              int
	Want             int
}

func (e GridSizeError) Error() string {
	return fmt.Sprintf("%s with %d subdivisions per beat has %d grid positions, dataset has %d", e.Signature, e.BeatSubdivisions, e.Want, e.Got)
}

func NewGrid(signature string, beatSubdivisions int) (*Grid, error) {
	levels, err := Levels(signature, beatSubdivisions)
	if err != nil {
		return nil, err
	}
	return &Grid{
		Signature:        signature,
		BeatSubdivisions: beatSubdivisions,
		Levels:           levels,
		Neighbors:        Neighbors(levels),
	}, nil
}

func (g *Grid) Size() int {
	return len(g.Levels)
}

// MaxLevel is the level of the downbeat.
func (g *Grid) MaxLevel() int {
	return util.MaxOf(g.Levels)
}

// LevelCount is the number of positions per measure sitting at level.
func (g *Grid) LevelCount(level int) int {
	return util.Count(g.Levels, level)
}

// Check fails when a dataset's measure length does not match the grid.
func (g *Grid) Check(gridSize int) error {
	if gridSize != g.Size() {
		return errors.WithStackTrace(GridSizeError{Signature: g.Signature, BeatSubdivisions: g.BeatSubdivisions, Got: gridSize, Want: g.Size()})
	}
	return nil
}
