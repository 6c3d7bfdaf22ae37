package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

// Header table types reported by SurveyStructure.
const (
	TableETFInfo  = "etf_info"
	TableHoldings = "holdings"
)

// HeaderColumn is one header cell observed in one vendor document.
type HeaderColumn struct {
	Path     string `csv:"path"`
	Filename string `csv:"filename"`
	Type     string `csv:"type"`
	Header   string `csv:"header"`
}

// SurveyStructure walks every zip archive under the download root and lists
// the header cells of the fund-summary and holdings tables of each document.
// It is used to audit vendor layout drift over time.
func (a *Aggregator) SurveyStructure(ctx context.Context) ([]HeaderColumn, error) {
	var archives []archiveRef
	err := filepath.WalkDir(a.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".zip") {
			archives = append(archives, archiveRef{path: p, vendor: filepath.Base(filepath.Dir(p))})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", a.root, err)
	}

	a.log.Info().Int("archives", len(archives)).Msg("structure survey start")

	var out []HeaderColumn
	for _, ar := range archives {
		err := WalkArchive(ctx, ar.path, ar.vendor, a.log, func(doc models.RawDocument) {
			cols := a.surveyDocument(ar.path, doc)
			if len(cols) == 0 {
				a.log.Warn().Str("archive", ar.path).Str("file", doc.Filename).Msg("could not extract any header")
			}
			out = append(out, cols...)
		})
		if errors.Is(err, ErrArchiveCorrupt) {
			a.log.Error().Err(err).Msg("archive skipped")
			continue
		}
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func (a *Aggregator) surveyDocument(archivePath string, doc models.RawDocument) []HeaderColumn {
	rsl, err := a.resolver.Resolve(doc)
	if err != nil {
		return nil
	}

	var out []HeaderColumn
	emit := func(loc *models.HeaderLocation, table string) {
		if loc == nil {
			return
		}
		for _, cell := range tokenize(rsl.Lines[loc.Line], rsl.Delimiter) {
			if cell == "" {
				continue
			}
			out = append(out, HeaderColumn{
				Path:     archivePath,
				Filename: filepath.Base(doc.Filename),
				Type:     table,
				Header:   cell,
			})
		}
	}
	emit(rsl.Result.FundHeader, TableETFInfo)
	emit(rsl.Result.HoldingsHeader, TableHoldings)
	return out
}
