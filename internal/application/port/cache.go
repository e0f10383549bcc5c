package port

import (
	"context"
	"errors"

	"stockdash/internal/domain/model"
)

// ErrCorruptEntry marks a cache hit whose payload failed to decode. The
// caller is expected to delete the entry and treat it as a miss.
var ErrCorruptEntry = errors.New("corrupt cache entry")

// SeriesCache is the volatile, time-expiring tier. Entries are written
// only right after a successful provider fetch and expire on their own;
// nothing invalidates them on other store writes.
type SeriesCache interface {
	// GetSeries returns (series, true, nil) on a hit, (nil, false, nil)
	// on a miss, and a non-nil error wrapping ErrCorruptEntry when the
	// payload exists but cannot be decoded.
	GetSeries(ctx context.Context, symbol string) ([]model.PriceBar, bool, error)

	// SetSeries stores the series under the symbol's key with the
	// configured TTL.
	SetSeries(ctx context.Context, symbol string, bars []model.PriceBar) error

	DeleteSeries(ctx context.Context, symbol string) error
}
