package model

// Measure holds one onset indicator (1 = onset, 0 = none) per grid position.
type Measure = []uint8

type Metadata struct {
	Title   string
	Artist  string
	Release string
	Year    uint
}

type Piece struct {
	ID       string
	Name     string
	Dataset  string
	Path     string
	Measures []Measure

	// NOTE: carried through for reporting only, never read while fitting
	Metadata *Metadata
}

type Dataset = []Piece

// Onsets counts the ones in a measure.
func Onsets(m Measure) int {
	var total int
	for _, v := range m {
		if v == 1 {
			total += 1
		}
	}
	return total
}

func NumMeasures(ds Dataset) int {
	var total int
	for _, p := range ds {
		total += len(p.Measures)
	}
	return total
}

// DatasetName is the name of the corpus the first piece was taken from.
func DatasetName(ds Dataset) string {
	if len(ds) == 0 {
		return ""
	}
	return ds[0].Dataset
}
