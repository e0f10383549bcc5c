package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"stockdash/internal/application/port"
	"stockdash/internal/domain/model"
)

// DefaultSeedSymbols is the convenience list used to populate the
// company table when it is empty.
var DefaultSeedSymbols = []string{
	"AAPL", "MSFT", "TSLA", "AMZN", "GOOGL",
	"INFY.NS", "RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "ITC.NS",
}

// CompanyService serves company metadata: on-demand profile fetches
// from the provider and the persisted, seedable company list.
type CompanyService struct {
	repo     port.BarRepository
	provider port.MarketProvider
	seedList []string
}

func NewCompanyService(repo port.BarRepository, provider port.MarketProvider, seedList []string) *CompanyService {
	if len(seedList) == 0 {
		seedList = DefaultSeedSymbols
	}
	return &CompanyService{repo: repo, provider: provider, seedList: seedList}
}

// GetCompanyInfo fetches the profile from the provider. Failures are
// logged and degrade to an empty profile, never an error.
func (s *CompanyService) GetCompanyInfo(ctx context.Context, symbol string) model.CompanyInfo {
	symbol = model.NormalizeSymbol(symbol)
	info, err := s.provider.FetchCompanyProfile(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("company profile fetch failed")
		return model.CompanyInfo{}
	}
	return info
}

// ListCompanies returns one page of the company table. An empty table
// triggers the seed routine once, then the page is re-read.
func (s *CompanyService) ListCompanies(ctx context.Context, page, limit int) ([]model.CompanyInfo, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	companies, err := s.repo.ListCompanies(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(companies) > 0 {
		return companies, nil
	}

	if _, err := s.Seed(ctx, s.seedList); err != nil {
		return nil, err
	}
	return s.repo.ListCompanies(ctx, offset, limit)
}

// Seed fetches and upserts profiles for the given symbols, skipping any
// the provider returns without a name. Returns the number upserted.
// Store failures propagate; provider failures just skip the symbol.
func (s *CompanyService) Seed(ctx context.Context, symbols []string) (int, error) {
	inserted := 0
	for _, sym := range symbols {
		sym = model.NormalizeSymbol(sym)
		info, err := s.provider.FetchCompanyProfile(ctx, sym)
		if err != nil {
			log.Warn().Err(err).Str("symbol", sym).Msg("seed: profile fetch failed")
			continue
		}
		if info.Name == "" {
			continue
		}
		info.Symbol = sym
		info.Exchange = "" // provider does not supply this reliably
		if err := s.repo.UpsertCompany(ctx, info); err != nil {
			return inserted, err
		}
		inserted++
	}
	log.Info().Int("inserted", inserted).Int("requested", len(symbols)).Msg("company seed finished")
	return inserted, nil
}
