package midi

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/logger"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

type SignatureMismatchError struct {
	Got  string
	Want string
}

func (e SignatureMismatchError) Error() string {
	return fmt.Sprintf("piece is in %s, wanted %s", e.Got, e.Want)
}

type UnsupportedTimeFormatError struct {
	Format string
}

func (e UnsupportedTimeFormatError) Error() string {
	return fmt.Sprintf("unsupported time format %s, only metric ticks can be placed on a grid", e.Format)
}

type NoNotesError struct{}

func (e NoNotesError) Error() string {
	return "no note onsets found"
}

// Note is one sounding note of the encoded track.
type Note struct {
	Key      uint8
	Tick     int64
	Duration int64
}

// NoteValue identifies a note independently of where it is placed.
type NoteValue struct {
	Key      uint8
	Duration int64
}

type Encoded struct {
	Name     string
	Measures []model.Measure
	Notes    []Note
	// onsets that fell between grid positions
	Dropped int
}

// Fingerprint is the (pitch, duration) sequence of the encoded notes in
// onset order.
func (e *Encoded) Fingerprint() []NoteValue {
	res := make([]NoteValue, len(e.Notes))
	for i, n := range e.Notes {
		res[i] = NoteValue{Key: n.Key, Duration: n.Duration}
	}
	return res
}

type meterEvent struct {
	tick  int64
	num   uint8
	denom uint8
}

type noteEvent struct {
	tick  int64
	key   uint8
	isOff bool
}

func readTrack(track smf.Track) (meters []meterEvent, notes []noteEvent, name string) {
	var absTicks int64
	for _, event := range track {
		absTicks += int64(event.Delta)
		var channel, key, velocity, num, denom uint8
		var text string
		switch {
		case event.Message.GetMetaMeter(&num, &denom):
			meters = append(meters, meterEvent{tick: absTicks, num: num, denom: denom})
		case event.Message.GetMetaTrackName(&text):
			if name == "" {
				name = strings.TrimSpace(text)
			}
		case event.Message.GetNoteOn(&channel, &key, &velocity):
			notes = append(notes, noteEvent{tick: absTicks, key: key, isOff: velocity == 0})
		case event.Message.GetNoteOff(&channel, &key, &velocity):
			notes = append(notes, noteEvent{tick: absTicks, key: key, isOff: true})
		}
	}
	return meters, notes, name
}

func hasOnset(notes []noteEvent) bool {
	for _, n := range notes {
		if !n.isOff {
			return true
		}
	}
	return false
}

// pairNotes matches every note on with the next note off of the same key.
// Notes that are never released keep a zero duration.
func pairNotes(events []noteEvent) []Note {
	var res []Note
	pressed := make(map[uint8][]int)
	for _, evt := range events {
		if evt.isOff {
			if open := pressed[evt.key]; len(open) > 0 {
				i := open[0]
				res[i].Duration = evt.tick - res[i].Tick
				pressed[evt.key] = open[1:]
			}
			continue
		}
		pressed[evt.key] = append(pressed[evt.key], len(res))
		res = append(res, Note{Key: evt.key, Tick: evt.tick})
	}
	slices.SortStableFunc(res, func(a, b Note) bool {
		if a.Tick != b.Tick {
			return a.Tick < b.Tick
		}
		return a.Key < b.Key
	})
	return res
}

// Encode places the note onsets of the first track that has any onto the
// onset grid of g. Pieces whose meter is not exactly g's signature for their
// whole length are rejected with a SignatureMismatchError. A file without any
// meter event is read as 4/4.
func Encode(s *smf.SMF, g *meter.Grid) (*Encoded, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.WithStackTrace(UnsupportedTimeFormatError{Format: fmt.Sprint(s.TimeFormat)})
	}
	num, denom, err := meter.ParseSignature(g.Signature)
	if err != nil {
		return nil, err
	}

	var meters []meterEvent
	var notes []noteEvent
	var name, firstName string
	for _, track := range s.Tracks {
		trackMeters, trackNotes, trackName := readTrack(track)
		meters = append(meters, trackMeters...)
		if notes == nil && hasOnset(trackNotes) {
			notes = trackNotes
			name = trackName
		}
		if firstName == "" {
			firstName = trackName
		}
	}
	if name == "" {
		name = firstName
	}
	if len(meters) == 0 {
		meters = []meterEvent{{num: 4, denom: 4}}
	}
	for _, m := range meters {
		got := fmt.Sprintf("%d/%d", m.num, m.denom)
		if got != g.Signature {
			return nil, errors.WithStackTrace(SignatureMismatchError{Got: got, Want: g.Signature})
		}
	}
	if notes == nil {
		return nil, errors.WithStackTrace(NoNotesError{})
	}

	measureTicks := int64(ticks.Ticks4th()) * 4 * int64(num) / int64(denom)
	size := int64(g.Size())
	res := &Encoded{Name: name, Notes: pairNotes(notes)}

	last := res.Notes[len(res.Notes)-1].Tick
	res.Measures = make([]model.Measure, last/measureTicks+1)
	for i := range res.Measures {
		res.Measures[i] = make(model.Measure, size)
	}
	for _, n := range res.Notes {
		offset := n.Tick % measureTicks
		if offset*size%measureTicks != 0 {
			res.Dropped += 1
			continue
		}
		res.Measures[n.Tick/measureTicks][offset*size/measureTicks] = 1
	}
	return res, nil
}

// EncodeFile reads and encodes one file. The piece is named after its track
// name, or after the file when it has none.
func EncodeFile(path string, g *meter.Grid) (*Encoded, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	res, err := Encode(s, g)
	if err != nil {
		return nil, err
	}
	if res.Name == "" {
		res.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if res.Dropped > 0 {
		logger.GetProjectLogger().WithFields(logrus.Fields{
			"path":    path,
			"dropped": res.Dropped,
		}).Warn("Onset position out of grid")
	}
	return res, nil
}
