package ingestion

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

// ErrArchiveCorrupt marks an archive that cannot be opened at all.
var ErrArchiveCorrupt = errors.New("archive corrupt")

// isCSV reports whether a zip entry name looks like a PCF document.
func isCSV(name string) bool {
	return strings.EqualFold(path.Ext(name), ".csv")
}

// WalkArchive opens the zip archive at archivePath and hands every .csv entry,
// in archive order, to fn as a RawDocument tagged with vendor.
//
// Entries that fail to read are logged and skipped. Opening failures return
// an error wrapping ErrArchiveCorrupt; ctx cancellation stops between entries.
func WalkArchive(ctx context.Context, archivePath, vendor string, log zerolog.Logger, fn func(models.RawDocument)) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArchiveCorrupt, archivePath, err)
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.FileInfo().IsDir() || !isCSV(f.Name) {
			continue
		}

		content, err := readEntry(f)
		if err != nil {
			log.Warn().Str("archive", archivePath).Str("file", f.Name).Err(err).Msg("archive entry unreadable")
			continue
		}
		fn(models.RawDocument{Content: content, Filename: f.Name, Vendor: vendor})
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	defer func() { _ = rc.Close() }()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	return b, nil
}
