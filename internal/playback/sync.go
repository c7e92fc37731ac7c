// Package playback resolves which lyric line is active for a given
// playback position. The presentation layer calls Advance once per
// animation tick; ticks may arrive at any cadence or be skipped.
package playback

import (
	"math"
	"sort"

	"lyricsync/internal/lyrics"
)

// NoLine is the index reported while no lyric line has started yet.
const NoLine = -1

// Synchronizer tracks the active line across ticks. The only state it
// retains between calls is the index resolved by the previous Advance,
// used to report transitions.
type Synchronizer struct {
	lines []lyrics.Line
	last  int
}

// New returns a synchronizer over lines, which must already be sorted
// ascending by timestamp (the parser's output contract).
func New(lines []lyrics.Line) *Synchronizer {
	return &Synchronizer{lines: lines, last: NoLine}
}

// SetLines replaces the lyric sequence and forgets the retained index.
func (s *Synchronizer) SetLines(lines []lyrics.Line) {
	s.lines = lines
	s.last = NoLine
}

// Reset forgets the retained index, keeping the lines.
func (s *Synchronizer) Reset() {
	s.last = NoLine
}

// Current returns the index resolved by the last Advance call without
// advancing.
func (s *Synchronizer) Current() int {
	return s.last
}

// Lines returns the lyric sequence being synchronized.
func (s *Synchronizer) Lines() []lyrics.Line {
	return s.lines
}

// Advance resolves the highest-indexed line whose timestamp is at or
// before currentTime, or NoLine if no line qualifies. changed reports
// whether the index differs from the previous call. Non-finite times
// resolve to NoLine.
func (s *Synchronizer) Advance(currentTime float64) (activeIndex int, changed bool) {
	activeIndex = NoLine
	if !math.IsNaN(currentTime) && !math.IsInf(currentTime, 0) {
		// Rightmost line with Timestamp <= currentTime. sort.Search
		// finds the first line strictly past currentTime; the one
		// before it, if any, is active.
		n := sort.Search(len(s.lines), func(i int) bool {
			return s.lines[i].Timestamp > currentTime
		})
		activeIndex = n - 1
	}

	changed = activeIndex != s.last
	s.last = activeIndex
	return activeIndex, changed
}

// Active returns the line resolved by the last Advance, if any.
func (s *Synchronizer) Active() (lyrics.Line, bool) {
	if s.last == NoLine || s.last >= len(s.lines) {
		return lyrics.Line{}, false
	}
	return s.lines[s.last], true
}
