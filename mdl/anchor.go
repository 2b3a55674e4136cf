package mdl

import (
	"fmt"

	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
)

// AnchorKind classifies a grid position by which of its two structurally
// stronger neighbours carry an onset.
type AnchorKind int

const (
	Unanchored AnchorKind = iota
	PreAnchored
	PostAnchored
	BiAnchored
	NumAnchorKinds
)

func (k AnchorKind) String() string {
	switch k {
	case Unanchored:
		return "un"
	case PreAnchored:
		return "pre"
	case PostAnchored:
		return "post"
	case BiAnchored:
		return "bi"
	}
	return "unknown"
}

func Classify(prevOnset, nextOnset bool) AnchorKind {
	switch {
	case prevOnset && nextOnset:
		return BiAnchored
	case prevOnset:
		return PreAnchored
	case nextOnset:
		return PostAnchored
	}
	return Unanchored
}

// AnchorTable holds the downbeat bucket and one row of anchoring buckets per
// slot. A slot is a metrical level (slot i is level i+1) or a non-initial
// grid position (slot i is position i+1).
type AnchorTable struct {
	ByLevel  bool
	Downbeat Tally
	Slots    [][NumAnchorKinds]Tally
}

func (t *AnchorTable) slotLabel(slot int) string {
	if t.ByLevel {
		return fmt.Sprintf("level %d", slot+1)
	}
	return fmt.Sprintf("position %d", slot+1)
}

// Params flattens the table: every slot's four buckets in AnchorKind order,
// then the downbeat.
func (t *AnchorTable) Params() []Param {
	res := make([]Param, 0, len(t.Slots)*int(NumAnchorKinds)+1)
	for slot, row := range t.Slots {
		for kind, tally := range row {
			res = append(res, Param{
				Label: fmt.Sprintf("%s %s", t.slotLabel(slot), AnchorKind(kind)),
				Tally: tally,
			})
		}
	}
	return append(res, Param{Label: "downbeat", Tally: t.Downbeat})
}

// anchoredFitter is the hierarchical model: the onset probability at a
// position depends on whether its neighbours one level up carry onsets.
type anchoredFitter struct {
	byLevel bool
}

func (f anchoredFitter) Name() Name {
	if f.byLevel {
		return HierarchicalByLevel
	}
	return HierarchicalByPosition
}

func (f anchoredFitter) slot(g *meter.Grid, pos int) int {
	if f.byLevel {
		return g.Levels[pos] - 1
	}
	return pos - 1
}

func (f anchoredFitter) Fit(ds model.Dataset, g *meter.Grid) Stats {
	s := summarize(f.Name(), ds, g)
	table := Anchor(ds, g, f.byLevel)
	s.Anchors = table
	s.Params = table.Params()
	return s
}

// Anchor builds the anchoring table of a dataset. Each measure is extended
// with the downbeat of the following measure, or a silent one after the last
// measure of a piece.
func Anchor(ds model.Dataset, g *meter.Grid, byLevel bool) *AnchorTable {
	f := anchoredFitter{byLevel: byLevel}
	size := g.Size()
	numSlots := size - 1
	if byLevel {
		numSlots = g.MaxLevel() - 1
	}
	table := &AnchorTable{
		ByLevel: byLevel,
		Slots:   make([][NumAnchorKinds]Tally, numSlots),
	}

	extended := make([]uint8, size+1)
	for _, p := range ds {
		for i, m := range p.Measures {
			copy(extended, m)
			extended[size] = 0
			if i+1 < len(p.Measures) {
				extended[size] = p.Measures[i+1][0]
			}

			table.Downbeat.Add(extended[0] == 1)
			for pos := 1; pos < size; pos++ {
				nb := g.Neighbors[pos]
				kind := Classify(extended[nb.Prev] == 1, extended[nb.Next] == 1)
				table.Slots[f.slot(g, pos)][kind].Add(extended[pos] == 1)
			}
		}
	}
	return table
}
