package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

const (
	byteOrderMark = "\ufeff"

	fundKeyField     = models.ColETFCode
	holdingsKeyField = models.ColCode
)

// SplitLines splits decoded text into physical lines (\r\n, \n or \r) and
// strips a leading byte-order mark from the first line only.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		lines[0] = strings.TrimPrefix(lines[0], byteOrderMark)
	}
	return lines
}

// Extract recovers the fund-summary and holdings sub-tables from one decoded
// document.
//
// Behavior:
//   - The fund-summary header is searched with key "ETF Code"; when found, the
//     header line and the single line after it form the table.
//   - The holdings header is searched independently from line 0 with key
//     "Code"; when found, every following line up to the end of the document
//     is a holdings row.
//   - Columns outside the recognized lists (including blank header cells) are
//     dropped, and so are holdings rows whose recognized cells are all blank.
//   - Malformed rows are skipped with a warning on log.
//   - Holdings inherit the fund code of a co-located fund summary.
//
// A result with neither header located is returned as-is; callers decide how
// to report it (see ParseResult.Found).
func Extract(text string, delim rune, log zerolog.Logger) models.ParseResult {
	lines := SplitLines(text)
	var res models.ParseResult

	if loc, ok := LocateHeader(lines, delim, fundKeyField, models.FundSummaryColumns); ok {
		res.FundHeader = &loc
		res.Fund = extractFundSummary(lines, loc.Line, delim, log)
	}

	if loc, ok := LocateHeader(lines, delim, holdingsKeyField, models.HoldingHeaderCandidates); ok {
		res.HoldingsHeader = &loc
		res.Holdings = extractHoldings(lines, loc.Line, delim, log)
	}

	if res.Fund != nil && res.Fund.ETFCode != "" {
		for i := range res.Holdings {
			res.Holdings[i].ETFCode = res.Fund.ETFCode
		}
	}
	return res
}

// extractFundSummary reads the header at lines[at] plus exactly one data
// record starting on the next line. Further records are never consulted for
// this sub-table.
func extractFundSummary(lines []string, at int, delim rune, log zerolog.Logger) *models.FundSummary {
	if at+1 >= len(lines) || strings.TrimSpace(lines[at+1]) == "" {
		log.Debug().Int("line", at+1).Msg("fund summary header without data row")
		return nil
	}

	header, err := parseHeader(lines[at], delim)
	if err != nil {
		log.Warn().Err(err).Int("line", at).Msg("unparseable fund summary header")
		return nil
	}
	rec, err := newBlockReader(lines[at+1:], delim).Read()
	if err != nil {
		log.Warn().Err(err).Int("line", at+1).Str("row", lines[at+1]).Msg("fund summary row skipped")
		return nil
	}
	row, err := fitRow(trimCells(rec), len(header))
	if err != nil {
		log.Warn().Err(err).Int("line", at+1).Str("row", lines[at+1]).Msg("fund summary row skipped")
		return nil
	}

	var f models.FundSummary
	for i, col := range header {
		if col != "" {
			f.Set(col, row[i])
		}
	}
	if f.IsEmpty() {
		return nil
	}
	return &f
}

// extractHoldings reads the header at lines[at] and every later record as a
// holding row. The block after the header is read as one CSV stream, so a
// quoted cell may span physical lines; blank lines are skipped.
func extractHoldings(lines []string, at int, delim rune, log zerolog.Logger) []models.Holding {
	header, err := parseHeader(lines[at], delim)
	if err != nil {
		log.Warn().Err(err).Int("line", at).Msg("unparseable holdings header")
		return nil
	}

	r := newBlockReader(lines[at+1:], delim)
	var out []models.Holding
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			log.Warn().Err(err).Int("line", at+perr.StartLine).Msg("holding row skipped")
			continue
		}
		if err != nil {
			log.Warn().Err(err).Int("line", at+1).Msg("holdings block unreadable")
			break
		}

		line, _ := r.FieldPos(0)
		rec = trimCells(rec)
		row, err := fitRow(rec, len(header))
		if err != nil {
			log.Warn().Err(err).Int("line", at+line).Str("row", strings.Join(rec, string(delim))).Msg("holding row skipped")
			continue
		}

		var h models.Holding
		for i, col := range header {
			if col != "" {
				h.Set(col, row[i])
			}
		}
		if h.IsEmpty() {
			continue
		}
		out = append(out, h)
	}
	return out
}

// parseHeader parses a header line into column names. Blank cells and
// repeated names become "" so they never map to a recognized column; the
// first occurrence of a name wins.
func parseHeader(line string, delim rune) ([]string, error) {
	rec, err := newBlockReader([]string{line}, delim).Read()
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	rec = trimCells(rec)
	seen := make(map[string]struct{}, len(rec))
	for i, name := range rec {
		if _, dup := seen[name]; dup || name == "" {
			rec[i] = ""
			continue
		}
		seen[name] = struct{}{}
	}
	return rec, nil
}

// fitRow fits a parsed record to width columns. Short rows are padded with
// blanks; long rows are accepted only if the overflow cells are blank
// (trailing delimiters), otherwise the row does not fit the layout.
func fitRow(rec []string, width int) ([]string, error) {
	if len(rec) > width {
		for _, extra := range rec[width:] {
			if extra != "" {
				return nil, fmt.Errorf("expected %d fields, got %d", width, len(rec))
			}
		}
		rec = rec[:width]
	}
	for len(rec) < width {
		rec = append(rec, "")
	}
	return rec, nil
}

// newBlockReader reads lines as a single CSV stream with the document's
// delimiter. Quotes are lenient and records may vary in length.
func newBlockReader(lines []string, delim rune) *csv.Reader {
	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r
}

func trimCells(rec []string) []string {
	for i, v := range rec {
		rec[i] = strings.TrimSpace(v)
	}
	return rec
}
