package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

const maxParallel = 3

// Options configures an Aggregator.
//
// Fields:
//   - Root: download root holding <vendor>/<vendor>_<date>.zip archives.
//   - Vendors: publishers in discovery order (default models.Vendors).
//   - Encodings: encoding priority list (default DefaultEncodings).
//   - Parallel: archives parsed concurrently; 0 = min(NumCPU, number of vendors).
type Options struct {
	Root      string
	Vendors   []models.Vendor
	Encodings []string
	Parallel  int
}

// Aggregator turns every vendor archive of a date into two period-level
// tables. Per-archive and per-document failures are logged and contribute
// zero records; only an unreadable download root aborts a run.
type Aggregator struct {
	root     string
	vendors  []models.Vendor
	resolver *Resolver
	parallel int
	log      zerolog.Logger
}

// NewAggregator builds an Aggregator. log is the observer for the whole run;
// callers scope it (run id, date) before passing it in.
func NewAggregator(opts Options, log zerolog.Logger) *Aggregator {
	vendors := opts.Vendors
	if len(vendors) == 0 {
		vendors = models.Vendors
	}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = min(runtime.NumCPU(), len(vendors), maxParallel)
	}
	if parallel < 1 {
		parallel = 1
	}

	return &Aggregator{
		root:     opts.Root,
		vendors:  vendors,
		resolver: NewResolver(opts.Encodings, log),
		parallel: parallel,
		log:      log,
	}
}

// archiveRef is one archive selected for processing.
type archiveRef struct {
	path   string
	vendor string
}

// findArchives lists the archives published for date, in vendor order. Vendors
// without an archive for that date are skipped.
func (a *Aggregator) findArchives(date time.Time) ([]archiveRef, error) {
	if _, err := os.Stat(a.root); err != nil {
		return nil, fmt.Errorf("download root %s: %w", a.root, err)
	}

	var out []archiveRef
	for _, v := range a.vendors {
		p := v.ArchivePath(a.root, date)
		info, err := os.Stat(p)
		switch {
		case err == nil && info.Mode().IsRegular():
			out = append(out, archiveRef{path: p, vendor: v.Name})
		case err == nil, os.IsNotExist(err):
		default:
			a.log.Warn().Str("archive", p).Err(err).Msg("archive not accessible")
		}
	}
	return out, nil
}

// ProcessDate aggregates every document of every archive matching date.
//
// Behavior:
//   - Archives are parsed concurrently (bounded by Options.Parallel).
//   - Output order is archive discovery order, then file order inside the archive.
//   - Every fund-summary and holding row is tagged with its vendor.
//
// Returns:
//   - models.Tables: concatenated fund summaries and holdings (possibly empty).
//   - error: unreadable download root, or ctx cancellation.
func (a *Aggregator) ProcessDate(ctx context.Context, date time.Time) (models.Tables, error) {
	archives, err := a.findArchives(date)
	if err != nil {
		return models.Tables{}, err
	}
	if len(archives) == 0 {
		a.log.Warn().Str("date", date.Format("2006-01-02")).Msg("no archives found for date")
		return models.Tables{}, nil
	}

	a.log.Info().Int("archives", len(archives)).Int("max_parallel", a.parallel).Msg("aggregation start")

	parts := make([]models.Tables, len(archives))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, a.parallel)

	for i, ar := range archives {
		i, ar := i, ar
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()

			t, err := a.ProcessArchive(gctx, ar.path, ar.vendor)
			if err != nil {
				return fmt.Errorf("archive %s: %w", ar.path, err)
			}
			parts[i] = t
			a.log.Info().Int("idx", i+1).Int("total", len(archives)).Str("archive", ar.path).
				Int("funds", len(t.Funds)).Int("holdings", len(t.Holdings)).
				Dur("elapsed", time.Since(start)).Msg("archive done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.Tables{}, err
	}

	var out models.Tables
	for _, t := range parts {
		out.Funds = append(out.Funds, t.Funds...)
		out.Holdings = append(out.Holdings, t.Holdings...)
	}
	return out, nil
}

// ProcessArchive parses every document of one archive. A corrupt archive is
// logged and yields empty tables; only ctx cancellation is returned.
func (a *Aggregator) ProcessArchive(ctx context.Context, archivePath, vendor string) (models.Tables, error) {
	var t models.Tables
	log := a.log.With().Str("archive", archivePath).Logger()

	err := WalkArchive(ctx, archivePath, vendor, log, func(doc models.RawDocument) {
		if res, ok := a.ParseDocument(doc); ok {
			collect(&t, res, vendor)
		}
	})
	if errors.Is(err, ErrArchiveCorrupt) {
		log.Error().Err(err).Msg("archive skipped")
		return models.Tables{}, nil
	}
	if err != nil {
		return models.Tables{}, err
	}
	return t, nil
}

// ParseDocument resolves and extracts one document. Any failure, panics
// included, is logged and reported as ok=false.
func (a *Aggregator) ParseDocument(doc models.RawDocument) (res models.ParseResult, ok bool) {
	log := a.log.With().Str("vendor", doc.Vendor).Str("file", doc.Filename).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Bytes("stack", debug.Stack()).
				Msg("document parse panicked")
			res, ok = models.ParseResult{}, false
		}
	}()

	rsl, err := a.resolver.Resolve(doc)
	if err != nil {
		log.Warn().Err(err).Msg("document skipped")
		return models.ParseResult{}, false
	}

	log.Debug().
		Str("encoding", rsl.Encoding).
		Bool("fund", rsl.Result.Fund != nil).
		Int("holdings", len(rsl.Result.Holdings)).
		Msg("document parsed")
	return rsl.Result, true
}

// collect appends one document's result to t, tagging rows with vendor.
// Holdings already carry the fund code of a co-located fund summary.
func collect(t *models.Tables, res models.ParseResult, vendor string) {
	if res.Fund != nil {
		f := *res.Fund
		f.Source = vendor
		t.Funds = append(t.Funds, f)
	}
	for _, h := range res.Holdings {
		h.Source = vendor
		t.Holdings = append(t.Holdings, h)
	}
}
