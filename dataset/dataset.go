// Package dataset turns a directory of MIDI files into an encoded onset
// dataset and persists it.
package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/constants"
	"github.com/jsphweid/mdlfit/logger"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/midi"
	"github.com/jsphweid/mdlfit/model"
	"github.com/jsphweid/mdlfit/util"
	"github.com/sirupsen/logrus"
)

// MetadataSource looks up provenance by file name.
type MetadataSource interface {
	GetPieceMetadatas(filenames []string) (map[string]model.Metadata, error)
}

type Options struct {
	Name   string
	Grid   *meter.Grid
	MaxNum int
	Dedup  bool
	// optional
	Metadata MetadataSource
}

// Candidate is an encoded piece that has not yet been deduplicated.
type Candidate struct {
	Piece       model.Piece
	Fingerprint []midi.NoteValue
}

func fingerprintKey(c Candidate) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(c.Piece.Measures)))
	for _, v := range c.Fingerprint {
		fmt.Fprintf(&b, "|%d:%d", v.Key, v.Duration)
	}
	return b.String()
}

// Dedup drops every piece whose measure count and (pitch, duration)
// sequence equal those of an earlier piece. It returns the kept pieces in
// their original order and the number dropped.
func Dedup(candidates []Candidate) ([]Candidate, int) {
	seen := make(map[string]bool)
	var res []Candidate
	for _, c := range candidates {
		key := fingerprintKey(c)
		if seen[key] {
			logger.GetProjectLogger().WithFields(logrus.Fields{"piece": c.Piece.Name}).Debug("Dropping duplicate")
			continue
		}
		seen[key] = true
		res = append(res, c)
	}
	return res, len(candidates) - len(res)
}

func encodeMidiFile(root, path string, opts Options) (Candidate, bool) {
	log := logger.GetProjectLogger()
	enc, err := midi.EncodeFile(path, opts.Grid)
	if err != nil {
		if _, ok := errors.Unwrap(err).(midi.SignatureMismatchError); ok {
			log.WithFields(logrus.Fields{"path": path}).Debugf("Skipping because: %v", err)
		} else {
			log.WithFields(logrus.Fields{"path": path}).Warnf("Skipping because: %v", err)
		}
		return Candidate{}, false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return Candidate{
		Piece: model.Piece{
			Name:     enc.Name,
			Dataset:  opts.Name,
			Path:     rel,
			Measures: enc.Measures,
		},
		Fingerprint: enc.Fingerprint(),
	}, true
}

func attachMetadata(ds model.Dataset, src MetadataSource) error {
	filenames := make([]string, len(ds))
	for i, p := range ds {
		filenames[i] = filepath.Base(p.Path)
	}

	found := make(map[string]model.Metadata)
	for _, batch := range util.Chunk(filenames, constants.MetadataBatchSize) {
		res, err := src.GetPieceMetadatas(batch)
		if err != nil {
			return err
		}
		for k, v := range res {
			found[k] = v
		}
	}

	for i := range ds {
		if md, ok := found[filepath.Base(ds[i].Path)]; ok {
			md := md
			ds[i].Metadata = &md
		}
	}
	return nil
}

// EncodeDirectory encodes every MIDI file under root that is written in
// the grid's time signature. Files that cannot be read or are in another
// meter are skipped.
func EncodeDirectory(root string, opts Options) (model.Dataset, error) {
	log := logger.GetProjectLogger()
	paths, err := util.GatherAllMidiPaths(root, opts.MaxNum)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for i, path := range paths {
		log.Debugf("Processing %v of %v midi files", i+1, len(paths))
		if c, ok := encodeMidiFile(root, path, opts); ok {
			candidates = append(candidates, c)
		}
	}

	var dropped int
	if opts.Dedup {
		candidates, dropped = Dedup(candidates)
	}

	ds := make(model.Dataset, len(candidates))
	for i, c := range candidates {
		ds[i] = c.Piece
		ds[i].ID = uuid.New().String()
	}

	if opts.Metadata != nil {
		if err := attachMetadata(ds, opts.Metadata); err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"dataset":    opts.Name,
		"files":      len(paths),
		"pieces":     len(ds),
		"duplicates": dropped,
		"measures":   model.NumMeasures(ds),
	}).Info("Encoded dataset")
	return ds, nil
}

// FileName is the name an encoded dataset is saved under, for example
// tango_44_2.gob.
func FileName(name string, g *meter.Grid) string {
	return fmt.Sprintf("%s_%s_%d%s", name, strings.ReplaceAll(g.Signature, "/", ""), g.BeatSubdivisions, constants.EncodedExt)
}

// Save writes ds into dir and returns the file it wrote.
func Save(dir string, name string, g *meter.Grid, ds model.Dataset) (string, error) {
	path := filepath.Join(dir, FileName(name, g))
	return path, SaveFile(path, ds)
}

func SaveFile(path string, ds model.Dataset) error {
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return util.CreateBinary(path, ds)
}

func Load(path string) (model.Dataset, error) {
	return util.ReadBinary[model.Dataset](path)
}
