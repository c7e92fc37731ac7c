// Package lyrics converts raw lyric text into an ordered sequence of
// timestamped lines. Two textual conventions are understood: tag-formatted
// files where each line carries a bracketed [MM:SS.CC] marker, and plain
// files where a line starts with a bare seconds value followed by the text.
package lyrics

// Line is a single timestamped lyric line. Immutable once produced.
// LineNumber is the 1-based position of the line in the original input,
// counting blank lines; it doubles as the tie-break key when several
// lines share a timestamp.
type Line struct {
	Timestamp  float64 `json:"timestamp"`
	Text       string  `json:"text"`
	LineNumber int     `json:"lineNumber"`
}
