package port

import (
	"context"

	"stockdash/internal/domain/model"
)

// MarketProvider fetches data from the external financial-data source.
//
// An empty result with a nil error means the upstream had nothing for
// the symbol (valid absence). A non-nil error is a transient upstream
// failure; the default policy degrades it to "no data" but callers can
// tell the two apart.
type MarketProvider interface {
	// FetchDailyBars returns the daily history for a symbol, normalized
	// and sorted ascending by date, incomplete rows dropped.
	FetchDailyBars(ctx context.Context, symbol string) ([]model.PriceBar, error)

	// FetchCompanyProfile returns company metadata for a symbol. A zero
	// CompanyInfo with nil error means the upstream had no profile.
	FetchCompanyProfile(ctx context.Context, symbol string) (model.CompanyInfo, error)
}
