package main

//
//  @title           pcfpulse API
//  @version         1.0
//  @description     ETF portfolio composition file (PCF) aggregation service.
//  @termsOfService  https://github.com/guttosm/pcfpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/pcfpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        pcf
//  @tag.description Fund summaries and holdings aggregated from vendor PCF archives
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guttosm/pcfpulse/config"
	_ "github.com/guttosm/pcfpulse/docs" // swagger docs
	"github.com/guttosm/pcfpulse/internal/app"
	"github.com/guttosm/pcfpulse/internal/domain/models"
	"github.com/guttosm/pcfpulse/internal/download"
	"github.com/guttosm/pcfpulse/internal/ingestion"
	"github.com/guttosm/pcfpulse/internal/logger"
	"github.com/guttosm/pcfpulse/internal/storage"
)

const (
	dateLayout      = "2006-01-02"
	structureFile   = "csv_structure.csv"
	selfTestPreview = 5
)

// startServer initializes and starts the HTTP server in a separate goroutine.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown terminates the HTTP server and cleans up resources when
// SIGINT or SIGTERM is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// parseDateArg parses the optional positional YYYY-MM-DD argument.
// ok is false when no argument was given.
func parseDateArg(args []string) (date time.Time, ok bool, err error) {
	if len(args) == 0 {
		return time.Time{}, false, nil
	}
	date, err = time.Parse(dateLayout, args[0])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", args[0], err)
	}
	return date, true, nil
}

// batchLogger scopes the process logger to one batch run.
func batchLogger(mode string, date time.Time) zerolog.Logger {
	c := logger.L().With().Str("run_id", uuid.NewString()).Str("mode", mode)
	if !date.IsZero() {
		c = c.Str("date", date.Format(dateLayout))
	}
	return c.Logger()
}

func newAggregator(cfg config.Config, log zerolog.Logger) *ingestion.Aggregator {
	return ingestion.NewAggregator(ingestion.Options{
		Root:      cfg.Paths.DownloadDir,
		Encodings: cfg.Parse.Encodings,
		Parallel:  cfg.Parse.Parallel,
	}, log)
}

// runParse aggregates every archive of date and writes the output tables.
func runParse(ctx context.Context, cfg config.Config, date time.Time, log zerolog.Logger) error {
	tables, err := newAggregator(cfg, log).ProcessDate(ctx, date)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", date.Format(dateLayout), err)
	}
	if tables.Empty() {
		log.Warn().Msg("no records extracted")
		return nil
	}

	written, err := storage.SaveTables(cfg.Paths.OutputDir, date.Format(dateLayout), tables)
	if err != nil {
		return err
	}
	log.Info().
		Int("funds", len(tables.Funds)).
		Int("holdings", len(tables.Holdings)).
		Strs("files", written).
		Msg("aggregated tables saved")
	return nil
}

// runSelfTest parses a single document and prints its fund summary and the
// first holdings to w.
func runSelfTest(cfg config.Config, w io.Writer, log zerolog.Logger) error {
	path := cfg.Paths.SelfTestFile
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read self-test file: %w", err)
	}

	res, err := ingestion.NewResolver(cfg.Parse.Encodings, log).Resolve(models.RawDocument{
		Content:  content,
		Filename: filepath.Base(path),
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	printResult(w, res)
	return nil
}

func printResult(w io.Writer, res ingestion.Resolution) {
	fmt.Fprintf(w, "encoding: %s\n\n", res.Encoding)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if f := res.Result.Fund; f != nil {
		fmt.Fprintln(w, "--- fund summary ---")
		for _, col := range models.FundSummaryColumns {
			fmt.Fprintf(tw, "%s\t%s\n", col, f.Get(col))
		}
		_ = tw.Flush()
		fmt.Fprintln(w)
	}

	holdings := res.Result.Holdings
	fmt.Fprintf(w, "--- holdings (%d) ---\n", len(holdings))
	if len(holdings) == 0 {
		return
	}
	header := []string{models.ColCode, models.ColName, models.ColISIN, models.ColShares, models.ColMarketValue}
	for i, col := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, h := range holdings[:min(selfTestPreview, len(holdings))] {
		for i, col := range header {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, h.Get(col))
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

// runDownload fetches the vendor archives of the lookback window ending today.
func runDownload(ctx context.Context, cfg config.Config, days int, log zerolog.Logger) error {
	vendors, err := models.SelectVendors(cfg.Download.Vendors)
	if err != nil {
		return err
	}
	dlog, err := storage.OpenDownloadLog(cfg.Paths.DownloadLog)
	if err != nil {
		return err
	}

	d := download.New(download.Options{
		Root:         cfg.Paths.DownloadDir,
		Vendors:      vendors,
		Timeout:      cfg.Download.Timeout,
		RatePerSec:   cfg.Download.RatePerSec,
		BusinessOnly: cfg.Download.BusinessOnly,
	}, dlog, log)

	sum, err := d.Run(ctx, time.Now(), days)
	if err != nil {
		return err
	}
	log.Info().
		Int("attempted", sum.Attempted).
		Int("succeeded", sum.Succeeded).
		Int("skipped", sum.Skipped).
		Msg("download finished")
	return nil
}

// runStructure surveys the header layout of every archived document.
func runStructure(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	cols, err := newAggregator(cfg, log).SurveyStructure(ctx)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		log.Warn().Msg("no headers found")
		return nil
	}
	out := filepath.Join(cfg.Paths.OutputDir, structureFile)
	if err := storage.SaveCSV(out, cols); err != nil {
		return err
	}
	log.Info().Int("columns", len(cols)).Str("file", out).Msg("structure survey saved")
	return nil
}

// main is the entry point of the pcfpulse application.
//
// Usage:
//
//	pcfpulse [--mode parse|download|structure|api] [flags] [YYYY-MM-DD]
//
// Modes:
//   - parse:     with a date, aggregates that date's archives into
//     base_info_<date>.csv and holdings_<date>.csv; without, parses
//     SELFTEST_FILE and prints the result.
//   - download:  fetches the last --days days of vendor archives.
//   - structure: writes csv_structure.csv describing every archived header.
//   - api:       serves the REST API.
func main() {
	ctx := context.Background()

	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	mode := flag.String("mode", "parse", "Mode: parse, download, structure or api")
	days := flag.Int("days", cfg.Download.LookbackDays, "Download mode: days back from today")
	parallel := flag.Int("parallel", cfg.Parse.Parallel, "Archives parsed concurrently (0=auto)")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	flag.Parse()
	cfg.Parse.Parallel = *parallel
	config.AppConfig.Parse.Parallel = *parallel

	date, hasDate, err := parseDateArg(flag.Args())
	if err != nil {
		logger.L().Error().Err(err).Msg("bad arguments")
		os.Exit(1)
	}

	switch *mode {
	case "parse":
		if !hasDate {
			if err := runSelfTest(cfg, os.Stdout, batchLogger("selftest", time.Time{})); err != nil {
				logger.L().Fatal().Err(err).Msg("self-test failed")
			}
			return
		}
		if err := runParse(ctx, cfg, date, batchLogger(*mode, date)); err != nil {
			logger.L().Fatal().Err(err).Msg("parse failed")
		}

	case "download":
		if err := runDownload(ctx, cfg, *days, batchLogger(*mode, time.Time{})); err != nil {
			logger.L().Fatal().Err(err).Msg("download failed")
		}

	case "structure":
		if err := runStructure(ctx, cfg, batchLogger(*mode, time.Time{})); err != nil {
			logger.L().Fatal().Err(err).Msg("structure survey failed")
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
