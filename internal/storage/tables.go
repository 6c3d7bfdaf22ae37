// Package storage persists pipeline outputs as flat files.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

// utf8BOM lets spreadsheet tools detect the UTF-8 output.
const utf8BOM = "\ufeff"

// WriteCSV writes rows (a slice of csv-tagged structs) to w as UTF-8 with a
// byte-order mark. The header row follows the struct field order.
func WriteCSV(w io.Writer, rows any) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// SaveCSV writes rows to path via WriteCSV, creating parent directories.
func SaveCSV(path string, rows any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// FundSummaryPath and HoldingsPath name the output tables of a date.
func FundSummaryPath(dir, date string) string {
	return filepath.Join(dir, "base_info_"+date+".csv")
}

func HoldingsPath(dir, date string) string {
	return filepath.Join(dir, "holdings_"+date+".csv")
}

// SaveTables writes the fund-summary and holdings tables of date into dir.
// A table with no rows is not written.
//
// Returns the paths actually written.
func SaveTables(dir, date string, t models.Tables) ([]string, error) {
	var written []string
	if len(t.Funds) > 0 {
		p := FundSummaryPath(dir, date)
		if err := SaveCSV(p, t.Funds); err != nil {
			return written, fmt.Errorf("save fund summaries: %w", err)
		}
		written = append(written, p)
	}
	if len(t.Holdings) > 0 {
		p := HoldingsPath(dir, date)
		if err := SaveCSV(p, t.Holdings); err != nil {
			return written, fmt.Errorf("save holdings: %w", err)
		}
		written = append(written, p)
	}
	return written, nil
}
