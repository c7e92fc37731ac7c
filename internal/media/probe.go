// Package media reads playback-relevant properties from stored audio
// files. It only inspects WAV headers; decoding and frequency analysis
// are the playback host's job.
package media

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat is returned when a file is not a readable WAV.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Info holds the properties read from a WAV header.
type Info struct {
	DurationSec float64
	SampleRate  int
	Channels    int
	BitDepth    int
}

// Probe reads WAV header information from path.
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, ErrUnsupportedFormat
	}

	dur, err := dec.Duration()
	if err != nil {
		return nil, fmt.Errorf("reading duration: %w", err)
	}

	return &Info{
		DurationSec: dur.Seconds(),
		SampleRate:  int(dec.SampleRate),
		Channels:    int(dec.NumChans),
		BitDepth:    int(dec.BitDepth),
	}, nil
}
