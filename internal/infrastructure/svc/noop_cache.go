package svc

import (
	"context"

	"stockdash/internal/domain/model"
)

// noopCache stands in when redis is disabled: every lookup is a miss
// and writes vanish.
type noopCache struct{}

func (noopCache) GetSeries(ctx context.Context, symbol string) ([]model.PriceBar, bool, error) {
	return nil, false, nil
}

func (noopCache) SetSeries(ctx context.Context, symbol string, bars []model.PriceBar) error {
	return nil
}

func (noopCache) DeleteSeries(ctx context.Context, symbol string) error {
	return nil
}
