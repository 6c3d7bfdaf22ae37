package ingestion

import (
	"errors"
	"strings"
)

// ErrAmbiguousDelimiter is returned by SniffDelimiter when neither comma nor
// tab can be told apart on the sample line.
var ErrAmbiguousDelimiter = errors.New("ambiguous delimiter")

// sampleLineIndex is the physical line that usually carries the holdings
// header in vendor files (4th line).
const sampleLineIndex = 3

var delimiterCandidates = []rune{',', '\t'}

// SniffDelimiter infers the field separator of sample among comma and tab.
//
// Behavior:
//   - Counts each candidate outside double-quoted sections.
//   - A candidate only qualifies if splitting on it yields at least two
//     non-empty fields.
//   - The qualifying candidate with the highest count wins; no qualifier or a
//     tie returns ErrAmbiguousDelimiter.
func SniffDelimiter(sample string) (rune, error) {
	best, bestCount, tie := rune(0), 0, false
	for _, c := range delimiterCandidates {
		n := countOutsideQuotes(sample, c)
		if n == 0 || nonEmptyFields(sample, c) < 2 {
			continue
		}
		switch {
		case n > bestCount:
			best, bestCount, tie = c, n, false
		case n == bestCount:
			tie = true
		}
	}
	if best == 0 || tie {
		return ',', ErrAmbiguousDelimiter
	}
	return best, nil
}

// DetectDelimiter picks the representative line of a document and sniffs it,
// defaulting to comma on ambiguity. The result applies to every sub-table of
// the document.
func DetectDelimiter(lines []string) rune {
	d, err := SniffDelimiter(sampleLine(lines))
	if err != nil {
		return ','
	}
	return d
}

// sampleLine returns the 4th physical line when it has content, otherwise
// the first non-blank line.
func sampleLine(lines []string) string {
	if len(lines) > sampleLineIndex && strings.TrimSpace(lines[sampleLineIndex]) != "" {
		return lines[sampleLineIndex]
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}

func countOutsideQuotes(s string, c rune) int {
	n, quoted := 0, false
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
		case r == c && !quoted:
			n++
		}
	}
	return n
}

func nonEmptyFields(s string, c rune) int {
	n := 0
	for _, f := range strings.Split(s, string(c)) {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n
}
