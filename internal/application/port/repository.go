package port

import (
	"context"

	"stockdash/internal/domain/model"
)

// BarRepository is the authoritative store for price bars and company
// metadata. It is the only tier whose failures surface to callers.
type BarRepository interface {
	// UpsertBars writes one symbol's bars in a single transaction,
	// idempotent on (symbol, date).
	UpsertBars(ctx context.Context, symbol string, bars []model.PriceBar) error

	// QueryBars returns all bars for a symbol sorted ascending by date.
	QueryBars(ctx context.Context, symbol string) ([]model.PriceBar, error)

	// Company metadata, upserted by symbol.
	UpsertCompany(ctx context.Context, info model.CompanyInfo) error
	GetCompany(ctx context.Context, symbol string) (model.CompanyInfo, bool, error)
	ListCompanies(ctx context.Context, offset, limit int) ([]model.CompanyInfo, error)

	// Connection management
	Close() error
}
