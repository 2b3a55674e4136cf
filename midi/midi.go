package midi

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gruntwork-io/go-commons/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

type ParseError struct {
	Path   string
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("Error parsing midi file %s... %s", e.Path, e.Reason)
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.WithStackTrace(ParseError{Path: filepath, Reason: fmt.Sprint(r)})
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.WithStackTrace(ParseError{Path: filepath, Reason: err.Error()})
	}

	return res, nil
}
