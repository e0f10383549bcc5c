package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for trading days, both in API responses
// and in the serialized cache payload.
const DateLayout = "2006-01-02"

// Day is a calendar day (no time-of-day component). It marshals to and
// from "YYYY-MM-DD".
type Day struct {
	time.Time
}

// NewDay builds a Day truncated to UTC midnight.
func NewDay(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Day{}, err
	}
	return Day{t}, nil
}

func (d Day) String() string { return d.Format(DateLayout) }

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Day) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("day %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// PriceBar is one OHLCV record for one symbol on one trading day.
// Identity is (symbol, date); re-ingesting the same day overwrites.
type PriceBar struct {
	Symbol string  `json:"symbol,omitempty"`
	Date   Day     `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// IndicatorRow is one derived row per input bar. Pointer fields are nil
// while the trailing window is still filling and serialize as JSON null.
type IndicatorRow struct {
	Date   Day      `json:"date"`
	Close  float64  `json:"close"`
	SMA20  *float64 `json:"sma_20"`
	SMA50  *float64 `json:"sma_50"`
	RSI14  *float64 `json:"rsi_14"`
	MACD   *float64 `json:"macd"`
	Signal *float64 `json:"signal"`
}

// CompanyInfo is one metadata row per symbol. Exchange is carried in the
// schema but never filled in by the provider.
type CompanyInfo struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name,omitempty"`
	Sector    string `json:"sector,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Website   string `json:"website,omitempty"`
	MarketCap string `json:"market_cap,omitempty"`
}

// IsZero reports whether the profile carries no data at all.
func (c CompanyInfo) IsZero() bool {
	return c.Name == "" && c.Sector == "" && c.Industry == "" &&
		c.Summary == "" && c.Website == "" && c.MarketCap == ""
}

// NormalizeSymbol uppercases and trims a ticker. Symbols are matched
// case-insensitively everywhere (store keys, cache keys, provider calls).
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
