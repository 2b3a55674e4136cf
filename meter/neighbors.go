package meter

// Neighbor locates the closest structurally stronger positions around a grid
// position. Next may equal the grid size, which stands for the downbeat of
// the following measure.
type Neighbor struct {
	Prev int
	Next int
}

// Neighbors derives, for every position, the nearest position before it and
// the nearest position after it whose level is strictly greater. Position 0
// has no neighbours and gets {-1, -1}.
func Neighbors(levels []int) []Neighbor {
	size := len(levels)
	res := make([]Neighbor, size)
	if size == 0 {
		return res
	}
	res[0] = Neighbor{Prev: -1, Next: -1}

	for pos := 1; pos < size; pos++ {
		prev := 0
		for j := pos - 1; j >= 0; j-- {
			if levels[j] > levels[pos] {
				prev = j
				break
			}
		}

		next := size
		for j := pos + 1; j < size; j++ {
			if levels[j] > levels[pos] {
				next = j
				break
			}
		}

		res[pos] = Neighbor{Prev: prev, Next: next}
	}
	return res
}
