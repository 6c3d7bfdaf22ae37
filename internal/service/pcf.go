// Package service exposes aggregated PCF tables to the HTTP layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

const dateLayout = "2006-01-02"

// ErrNoData is returned when a date (or a fund within it) has no records.
var ErrNoData = errors.New("no data")

// DateProcessor aggregates all archives of a date into tables.
// *ingestion.Aggregator satisfies it.
type DateProcessor interface {
	ProcessDate(ctx context.Context, date time.Time) (models.Tables, error)
}

// FundOverview is a fund summary enriched with figures derived from its
// holdings.
type FundOverview struct {
	models.FundSummary
	HoldingsCount    int
	MarketValueTotal decimal.Decimal
}

// PCFService defines the read operations over a date's aggregated tables.
type PCFService interface {
	Funds(ctx context.Context, date time.Time) ([]FundOverview, error)
	Holdings(ctx context.Context, date time.Time, etfCode, source string) ([]models.Holding, error)
}

type pcfService struct {
	proc  DateProcessor
	cache *cache.Cache
	group singleflight.Group
	log   zerolog.Logger
}

// NewPCFService wraps proc with a per-date cache. Empty results are not
// cached so that later downloads become visible.
func NewPCFService(proc DateProcessor, ttl time.Duration, log zerolog.Logger) PCFService {
	return &pcfService{
		proc:  proc,
		cache: cache.New(ttl, 2*ttl),
		log:   log,
	}
}

func (s *pcfService) tables(ctx context.Context, date time.Time) (models.Tables, error) {
	key := date.Format(dateLayout)
	if v, ok := s.cache.Get(key); ok {
		return v.(models.Tables), nil
	}

	// The shared computation outlives any single caller; each caller still
	// stops waiting when its own ctx ends.
	ch := s.group.DoChan(key, func() (any, error) {
		if v, ok := s.cache.Get(key); ok {
			return v.(models.Tables), nil
		}
		t, err := s.proc.ProcessDate(context.WithoutCancel(ctx), date)
		if err != nil {
			return models.Tables{}, fmt.Errorf("process %s: %w", key, err)
		}
		if t.Empty() {
			return t, nil
		}
		s.cache.SetDefault(key, t)
		return t, nil
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return models.Tables{}, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return models.Tables{}, r.Err
	}
	s.log.Debug().Str("date", key).Bool("shared", r.Shared).Msg("tables loaded")

	t := r.Val.(models.Tables)
	if t.Empty() {
		return models.Tables{}, ErrNoData
	}
	return t, nil
}

// Funds returns every fund summary of date with its holdings count and the
// sum of parseable market values.
func (s *pcfService) Funds(ctx context.Context, date time.Time) ([]FundOverview, error) {
	t, err := s.tables(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(t.Funds) == 0 {
		return nil, ErrNoData
	}

	type fundKey struct{ code, source string }
	counts := make(map[fundKey]int)
	totals := make(map[fundKey]decimal.Decimal)
	for _, h := range t.Holdings {
		k := fundKey{h.ETFCode, h.Source}
		counts[k]++
		if mv, ok := ParseAmount(h.MarketValue); ok {
			totals[k] = totals[k].Add(mv)
		}
	}

	out := make([]FundOverview, 0, len(t.Funds))
	for _, f := range t.Funds {
		k := fundKey{f.ETFCode, f.Source}
		out = append(out, FundOverview{
			FundSummary:      f,
			HoldingsCount:    counts[k],
			MarketValueTotal: totals[k],
		})
	}
	return out, nil
}

// Holdings returns the holdings of etfCode on date, optionally restricted to
// one vendor.
func (s *pcfService) Holdings(ctx context.Context, date time.Time, etfCode, source string) ([]models.Holding, error) {
	t, err := s.tables(ctx, date)
	if err != nil {
		return nil, err
	}

	var out []models.Holding
	for _, h := range t.Holdings {
		if h.ETFCode != etfCode {
			continue
		}
		if source != "" && !strings.EqualFold(h.Source, source) {
			continue
		}
		out = append(out, h)
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// ParseAmount parses a numeric cell as published, tolerating thousands
// separators and surrounding blanks.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
