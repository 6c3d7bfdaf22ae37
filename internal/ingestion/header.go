package ingestion

import (
	"strings"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

// tokenize splits a raw line on delim and trims surrounding whitespace from
// every token. Quotes are not interpreted: header cells in PCF files are bare.
func tokenize(line string, delim rune) []string {
	parts := strings.Split(line, string(delim))
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// matchHeader applies the header predicate to one tokenized line: key must be
// an exact token and strictly more than half of candidates must be present.
// Exactly half is a rejection.
func matchHeader(tokens []string, key string, candidates []string) ([]string, bool) {
	present := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		present[t] = struct{}{}
	}
	if _, ok := present[key]; !ok {
		return nil, false
	}

	var matched []string
	for _, c := range candidates {
		if _, ok := present[c]; ok {
			matched = append(matched, c)
		}
	}
	if 2*len(matched) <= len(candidates) {
		return nil, false
	}
	return matched, true
}

// LocateHeader scans lines from index 0 and returns the first line that
// satisfies the header predicate for key and candidates.
//
// Parameters:
//   - lines: decoded document lines (BOM already stripped).
//   - delim: the delimiter detected for the document.
//   - key: field that must appear as an exact token.
//   - candidates: fields voted on; the key may be one of them.
//
// Returns:
//   - models.HeaderLocation: line index, key and matched candidates.
//   - bool: false when no line qualifies. Callers treat the sub-table as absent.
func LocateHeader(lines []string, delim rune, key string, candidates []string) (models.HeaderLocation, bool) {
	for i, line := range lines {
		if !strings.Contains(line, key) {
			continue
		}
		if matched, ok := matchHeader(tokenize(line, delim), key, candidates); ok {
			return models.HeaderLocation{Line: i, Key: key, Matched: matched}, true
		}
	}
	return models.HeaderLocation{}, false
}
