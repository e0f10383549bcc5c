package service

import (
	"math"

	"stockdash/internal/domain/model"
)

// Trailing windows and EMA spans for the derived columns.
const (
	smaShortWindow = 20
	smaLongWindow  = 50
	rsiWindow      = 14
	macdFastSpan   = 12
	macdSlowSpan   = 26
	macdSignalSpan = 9
)

// ComputeIndicators derives one IndicatorRow per input bar, same order.
// Input must be sorted ascending by date. Values are nil until their
// trailing window has filled; non-finite intermediates also map to nil.
func ComputeIndicators(bars []model.PriceBar) []model.IndicatorRow {
	closes := extractCloses(bars)

	sma20 := rollingMean(closes, smaShortWindow)
	sma50 := rollingMean(closes, smaLongWindow)
	rsi := relativeStrength(closes, rsiWindow)

	emaFast := ema(closes, macdFastSpan)
	emaSlow := ema(closes, macdSlowSpan)
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signal := ema(macd, macdSignalSpan)

	rows := make([]model.IndicatorRow, len(bars))
	for i, b := range bars {
		rows[i] = model.IndicatorRow{
			Date:   b.Date,
			Close:  b.Close,
			SMA20:  sma20[i],
			SMA50:  sma50[i],
			RSI14:  rsi[i],
			MACD:   finite(macd[i]),
			Signal: finite(signal[i]),
		}
	}
	return rows
}

func extractCloses(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// rollingMean returns the trailing simple moving average, nil for the
// first window-1 positions.
func rollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = finite(sum / float64(window))
		}
	}
	return out
}

// relativeStrength computes RSI from trailing simple means of gains and
// losses over the last `window` deltas. Defined from index `window`
// onward. A zero average loss yields 100 when gains are present and nil
// for a perfectly flat window (no momentum reading either way).
func relativeStrength(closes []float64, window int) []*float64 {
	out := make([]*float64, len(closes))
	if len(closes) < 2 {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > window {
			gainSum -= gains[i-window]
			lossSum -= losses[i-window]
		}
		if i < window {
			continue
		}
		avgGain := gainSum / float64(window)
		avgLoss := lossSum / float64(window)
		switch {
		case avgLoss == 0 && avgGain == 0:
			// flat window, 0/0
		case avgLoss == 0:
			out[i] = finite(100)
		default:
			rs := avgGain / avgLoss
			out[i] = finite(100 - 100/(1+rs))
		}
	}
	return out
}

// ema is the recursive exponential moving average with alpha=2/(span+1),
// seeded from the first value.
func ema(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// finite returns &v, or nil when v is NaN or infinite. Downstream JSON
// must see null, never a numeric sentinel.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
