package service

import (
	"context"
	"sort"
	"time"

	"bitcoin-price-service/internal/halving"
	"bitcoin-price-service/internal/model"

	"go.uber.org/zap"
)

// PriceStore is the historical-store capability consumed by the price
// service. The concrete implementation lives in the repository package; the
// interface keeps the query logic independent of the storage engine.
type PriceStore interface {
	FetchRange(ctx context.Context, start, end time.Time) ([]model.PriceRecord, error)
	FetchAll(ctx context.Context, limit, offset int) ([]model.PriceRecord, error)
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*model.PriceStatistics, error)
}

// PriceService answers historical price queries: single ranges, multi-range
// unions for halving eras, year filters, listings and statistics. Any store
// failure is fatal to the whole call; it never returns partial results
// alongside an error.
type PriceService struct {
	store    PriceStore
	resolver *halving.Resolver
	logger   *zap.Logger
}

// NewPriceService creates a new price service.
func NewPriceService(store PriceStore, resolver *halving.Resolver, logger *zap.Logger) *PriceService {
	return &PriceService{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// RecordsInRange returns records with date in the inclusive [start, end]
// range, ordered by date ascending. No matching rows is an empty slice, not
// an error.
func (s *PriceService) RecordsInRange(ctx context.Context, start, end time.Time) ([]model.PriceRecord, error) {
	return s.store.FetchRange(ctx, start, end)
}

// RecordsForRanges fetches each range independently and merges the results
// into one ascending-by-date sequence with no duplicate dates. Ranges may
// overlap; for a date covered more than once the record from the earliest
// range in input order wins.
func (s *PriceService) RecordsForRanges(ctx context.Context, ranges []model.DateRange) ([]model.PriceRecord, error) {
	seen := make(map[string]struct{})
	merged := []model.PriceRecord{}

	for _, rng := range ranges {
		records, err := s.store.FetchRange(ctx, rng.Start, rng.End)
		if err != nil {
			// Fatal: historical data integrity within one response is a
			// correctness requirement.
			return nil, err
		}
		for _, rec := range records {
			key := rec.Date.Format("2006-01-02")
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, rec)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged, nil
}

// RecordsForHalving returns the records inside the configured era window
// for a halving index.
func (s *PriceService) RecordsForHalving(ctx context.Context, index int) ([]model.PriceRecord, error) {
	rng, err := s.resolver.RangeForHalving(index)
	if err != nil {
		return nil, err
	}
	return s.RecordsInRange(ctx, rng.Start, rng.End)
}

// RecordsForAllHalvings returns the union of records across every
// configured era window, de-duplicated by date.
func (s *PriceService) RecordsForAllHalvings(ctx context.Context) ([]model.PriceRecord, error) {
	return s.RecordsForRanges(ctx, s.resolver.RangesForAllHalvings())
}

// RecordsForYear returns the records for one calendar year.
func (s *PriceService) RecordsForYear(ctx context.Context, year int) ([]model.PriceRecord, error) {
	rng, err := s.resolver.RangeForYear(year)
	if err != nil {
		return nil, err
	}
	return s.RecordsInRange(ctx, rng.Start, rng.End)
}

// AllRecords returns one page of the full history plus the total count.
func (s *PriceService) AllRecords(ctx context.Context, page, limit int) ([]model.PriceRecord, int, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	records, err := s.store.FetchAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Statistics returns summary statistics over the stored close prices.
func (s *PriceService) Statistics(ctx context.Context) (*model.PriceStatistics, error) {
	return s.store.Stats(ctx)
}
