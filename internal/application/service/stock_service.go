package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"stockdash/internal/application/port"
	"stockdash/internal/domain/model"
	domainservice "stockdash/internal/domain/service"
)

// StockService implements the tiered lookup for price series: store,
// then cache, then provider. A provider hit back-fills both lower tiers.
type StockService struct {
	repo     port.BarRepository
	cache    port.SeriesCache
	provider port.MarketProvider
}

func NewStockService(repo port.BarRepository, cache port.SeriesCache, provider port.MarketProvider) *StockService {
	return &StockService{repo: repo, cache: cache, provider: provider}
}

// GetPriceSeries resolves a symbol through the tier chain and returns
// the series sorted ascending by date, possibly empty.
//
// Tier order is strict and short-circuits on the first non-empty hit:
// once any bar for a symbol is in the store, the cache and provider are
// never consulted for it again until the store rows are cleared
// externally. A store hit is trusted as-is, with no freshness check.
func (s *StockService) GetPriceSeries(ctx context.Context, symbol string) ([]model.PriceBar, error) {
	symbol = model.NormalizeSymbol(symbol)

	// 1. Store: authoritative, errors propagate.
	stored, err := s.repo.QueryBars(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		return stored, nil
	}

	// 2. Cache: a corrupt entry is deleted and treated as a miss; any
	// other cache failure degrades to a miss as well.
	cached, hit, err := s.cache.GetSeries(ctx, symbol)
	if err != nil {
		if errors.Is(err, port.ErrCorruptEntry) {
			log.Warn().Str("symbol", symbol).Msg("corrupt cache entry, deleting")
			if delErr := s.cache.DeleteSeries(ctx, symbol); delErr != nil {
				log.Warn().Err(delErr).Str("symbol", symbol).Msg("cache delete failed")
			}
		} else {
			log.Warn().Err(err).Str("symbol", symbol).Msg("cache lookup failed")
		}
	} else if hit {
		return cached, nil
	}

	// 3. Provider: a transient failure is logged and degrades to "no
	// data"; an empty result writes nothing anywhere.
	fresh, err := s.provider.FetchDailyBars(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("provider fetch failed")
		return []model.PriceBar{}, nil
	}
	if len(fresh) == 0 {
		return []model.PriceBar{}, nil
	}

	if err := s.repo.UpsertBars(ctx, symbol, fresh); err != nil {
		return nil, err
	}
	if err := s.cache.SetSeries(ctx, symbol, fresh); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("cache write failed")
	}

	log.Info().Str("symbol", symbol).Int("bars", len(fresh)).Msg("symbol ingested from provider")
	return fresh, nil
}

// GetIndicators pulls the symbol's series through the same tier chain
// and derives the indicator rows from it.
func (s *StockService) GetIndicators(ctx context.Context, symbol string) ([]model.IndicatorRow, error) {
	bars, err := s.GetPriceSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return domainservice.ComputeIndicators(bars), nil
}
