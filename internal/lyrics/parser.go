package lyrics

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// tagPattern matches the bracketed timestamp marker: non-negative integer
// minutes and seconds, then 1-2 fractional digits, then the lyric text.
var tagPattern = regexp.MustCompile(`^\[(\d+):(\d+)\.(\d{1,2})\]\s*(.*)$`)

type config struct {
	scaleFraction bool
}

// ParseOption adjusts parsing behavior.
type ParseOption func(*config)

// WithFractionScaling divides the fractional-second digits by 10^digits
// instead of always by 100, so "[00:01.5]" reads as 1.5s rather than
// 1.05s. The default keeps the literal-hundredths interpretation for
// compatibility with files written against it.
func WithFractionScaling() ParseOption {
	return func(c *config) {
		c.scaleFraction = true
	}
}

// Parse converts raw lyric text into timestamped lines.
//
// Detection is global: if any line in the input carries a [MM:SS.CC] tag
// the whole file is treated as tag-formatted and untagged lines are
// dropped, never reinterpreted. Only when no tag appears anywhere does
// the plain "seconds text" fallback apply, line by line. Lines that fit
// neither convention are skipped, so Parse never fails; an input with no
// parseable lines yields an empty sequence.
//
// The result is sorted ascending by timestamp. The sort is stable, so
// lines sharing a timestamp keep their original order.
func Parse(content string, opts ...ParseOption) []Line {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	raw := strings.Split(content, "\n")

	var lines []Line
	tagged := false
	for i, physical := range raw {
		trimmed := strings.TrimSpace(physical)
		if trimmed == "" {
			continue
		}
		m := tagPattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		tagged = true
		text := strings.TrimSpace(m[4])
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Timestamp:  tagTimestamp(m[1], m[2], m[3], cfg),
			Text:       text,
			LineNumber: i + 1,
		})
	}

	if !tagged {
		lines = parsePlain(raw)
	}

	sort.SliceStable(lines, func(a, b int) bool {
		return lines[a].Timestamp < lines[b].Timestamp
	})
	return lines
}

// tagTimestamp computes minutes*60 + seconds + fraction. The fractional
// digit group is read as a literal count of hundredths regardless of how
// many digits it has, so "5" contributes 0.05s, not 0.5s. That matches
// how existing files were indexed; WithFractionScaling opts out.
func tagTimestamp(minutes, seconds, fraction string, cfg config) float64 {
	min, _ := strconv.Atoi(minutes)
	sec, _ := strconv.Atoi(seconds)
	frac, _ := strconv.Atoi(fraction)

	scale := 100.0
	if cfg.scaleFraction {
		scale = math.Pow10(len(fraction))
	}
	return float64(min)*60 + float64(sec) + float64(frac)/scale
}

// parsePlain applies the fallback convention: a leading non-negative
// seconds value, whitespace, then the text. Everything else is skipped.
func parsePlain(raw []string) []Line {
	var lines []Line
	for i, physical := range raw {
		fields := strings.Fields(physical)
		if len(fields) < 2 {
			continue
		}
		ts, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || ts < 0 || math.IsNaN(ts) || math.IsInf(ts, 0) {
			continue
		}
		lines = append(lines, Line{
			Timestamp:  ts,
			Text:       strings.Join(fields[1:], " "),
			LineNumber: i + 1,
		})
	}
	return lines
}
