// Package download fetches the daily bulk PCF archives of every vendor and
// records per-day completion flags.
package download

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/guttosm/pcfpulse/internal/domain/models"
	"github.com/guttosm/pcfpulse/internal/storage"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRate    = 2
	userAgent      = "pcfpulse/1.0"
)

// Options configures a Downloader.
type Options struct {
	Root         string          // archives land in Root/<vendor>/
	Vendors      []models.Vendor // default models.Vendors
	Timeout      time.Duration   // per request
	RatePerSec   float64         // requests per second per vendor
	BusinessOnly bool            // skip days the TSE is closed
	Client       *http.Client    // optional, overrides Timeout
}

// Summary counts what a Run did.
type Summary struct {
	Attempted int
	Succeeded int
	Skipped   int
}

// Downloader performs best-effort GETs of vendor bulk archives. There are no
// retries: a failed day stays flagged 0 and is attempted again on the next run.
type Downloader struct {
	root         string
	vendors      []models.Vendor
	client       *http.Client
	ratePerSec   float64
	businessOnly bool
	dlog         storage.DownloadLog
	log          zerolog.Logger
}

// New builds a Downloader writing completion flags to dlog.
func New(opts Options, dlog storage.DownloadLog, log zerolog.Logger) *Downloader {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = defaultRate
	}
	if len(opts.Vendors) == 0 {
		opts.Vendors = models.Vendors
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Downloader{
		root:         opts.Root,
		vendors:      opts.Vendors,
		client:       client,
		ratePerSec:   opts.RatePerSec,
		businessOnly: opts.BusinessOnly,
		dlog:         dlog,
		log:          log,
	}
}

// Run visits every date from `from` minus days up to `from` for each vendor.
//
// Behavior:
//   - Vendors run concurrently; dates run sequentially within a vendor,
//     paced by a per-vendor rate limiter.
//   - (vendor, date) pairs already flagged loaded are skipped.
//   - The download log is saved after every attempt.
//
// Returns an error only when the archive root cannot be created, the log
// cannot be saved, or ctx is cancelled.
func (d *Downloader) Run(ctx context.Context, from time.Time, days int) (Summary, error) {
	for _, v := range d.vendors {
		if err := os.MkdirAll(filepath.Join(d.root, v.Name), 0o755); err != nil {
			return Summary{}, fmt.Errorf("create vendor dir: %w", err)
		}
	}

	dates := LastNDays(days, from)
	sums := make([]Summary, len(d.vendors))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range d.vendors {
		i, v := i, v
		g.Go(func() error {
			s, err := d.runVendor(gctx, v, dates)
			sums[i] = s
			return err
		})
	}
	err := g.Wait()

	var total Summary
	for _, s := range sums {
		total.Attempted += s.Attempted
		total.Succeeded += s.Succeeded
		total.Skipped += s.Skipped
	}
	return total, err
}

func (d *Downloader) runVendor(ctx context.Context, v models.Vendor, dates []time.Time) (Summary, error) {
	var s Summary
	lim := rate.NewLimiter(rate.Limit(d.ratePerSec), 1)
	log := d.log.With().Str("vendor", v.Name).Logger()

	for _, date := range dates {
		if d.businessOnly && !IsBusinessDayJP(date) {
			s.Skipped++
			continue
		}
		if d.dlog.Loaded(date, v.Name) {
			s.Skipped++
			continue
		}
		if err := lim.Wait(ctx); err != nil {
			return s, fmt.Errorf("rate limiter wait: %w", err)
		}

		s.Attempted++
		ok := d.fetch(ctx, v, date)
		if ok {
			s.Succeeded++
		}
		log.Info().Str("date", date.Format("2006-01-02")).Bool("ok", ok).Msg("download")

		d.dlog.MarkLoaded(date, v.Name, ok)
		if err := d.dlog.Save(); err != nil {
			return s, fmt.Errorf("save download log: %w", err)
		}
	}
	return s, nil
}

// fetch downloads one archive. Any failure removes the partial file.
func (d *Downloader) fetch(ctx context.Context, v models.Vendor, date time.Time) bool {
	url := v.URL(date)
	dest := v.ArchivePath(d.root, date)
	log := d.log.With().Str("vendor", v.Name).Str("url", url).Logger()

	body, err := d.get(ctx, url)
	if err != nil {
		log.Debug().Err(err).Msg("download failed")
		_ = os.Remove(dest)
		return false
	}
	if v.VerifyZip {
		if _, err := zip.NewReader(bytes.NewReader(body), int64(len(body))); err != nil {
			log.Debug().Err(err).Msg("download is not a zip archive")
			_ = os.Remove(dest)
			return false
		}
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		log.Warn().Err(err).Str("path", dest).Msg("write archive failed")
		_ = os.Remove(dest)
		return false
	}
	return true
}

func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
