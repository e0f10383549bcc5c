package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"stockdash/internal/application/port"
	"stockdash/internal/domain/model"
)

// Client fetches daily bars and company profiles from the Yahoo
// Finance public API. All methods return an error on transport or
// shape failures; callers decide whether to degrade that to "no data".
type Client struct {
	baseURL string
	rng     string // chart lookback range, e.g. "1y"
	client  *http.Client
}

func New(baseURL, rng string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	if rng == "" {
		rng = "1y"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		rng:     rng,
		client:  &http.Client{Timeout: timeout},
	}
}

// chartResponse is the shape of the /v8/finance/chart endpoint. OHLCV
// arrays carry nulls for holidays and partial rows, hence *float64.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// quoteSummaryResponse is the shape of /v10/finance/quoteSummary with
// the assetProfile and price modules.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile *struct {
				Sector              string `json:"sector"`
				Industry            string `json:"industry"`
				LongBusinessSummary string `json:"longBusinessSummary"`
				Website             string `json:"website"`
			} `json:"assetProfile"`
			Price *struct {
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
				MarketCap *struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// FetchDailyBars requests the configured daily history (default one
// year) and normalizes it to PriceBar. Rows with any missing OHLCV
// field are dropped; the drop count is logged so data quality stays
// observable.
func (c *Client) FetchDailyBars(ctx context.Context, symbol string) ([]model.PriceBar, error) {
	symbol = model.NormalizeSymbol(symbol)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.baseURL, url.PathEscape(symbol), c.rng)

	var chart chartResponse
	if err := c.getJSON(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))
	dropped := 0

	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			dropped++
			continue
		}
		o, h, l, cl, v := quote.Open[i], quote.High[i], quote.Low[i], quote.Close[i], quote.Volume[i]
		if o == nil || h == nil || l == nil || cl == nil || v == nil {
			dropped++
			continue
		}
		bars = append(bars, model.PriceBar{
			Symbol: symbol,
			Date:   model.NewDay(time.Unix(ts, 0)),
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *cl,
			Volume: *v,
		})
	}

	if dropped > 0 {
		log.Debug().Str("symbol", symbol).Int("dropped", dropped).Msg("dropped incomplete provider rows")
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date.Time) })
	return bars, nil
}

// FetchCompanyProfile maps the assetProfile and price modules onto
// CompanyInfo. A missing profile yields a zero value, not an error.
func (c *Client) FetchCompanyProfile(ctx context.Context, symbol string) (model.CompanyInfo, error) {
	symbol = model.NormalizeSymbol(symbol)
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile%%2Cprice",
		c.baseURL, url.PathEscape(symbol))

	var summary quoteSummaryResponse
	if err := c.getJSON(ctx, u, &summary); err != nil {
		return model.CompanyInfo{}, err
	}
	if summary.QuoteSummary.Error != nil {
		return model.CompanyInfo{}, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return model.CompanyInfo{}, nil
	}

	r := summary.QuoteSummary.Result[0]
	info := model.CompanyInfo{Symbol: symbol}
	if r.Price != nil {
		info.Name = r.Price.LongName
		if info.Name == "" {
			info.Name = r.Price.ShortName
		}
		if r.Price.MarketCap != nil {
			info.MarketCap = strconv.FormatFloat(r.Price.MarketCap.Raw, 'f', -1, 64)
		}
	}
	if r.AssetProfile != nil {
		info.Sector = r.AssetProfile.Sector
		info.Industry = r.AssetProfile.Industry
		info.Summary = r.AssetProfile.LongBusinessSummary
		info.Website = r.AssetProfile.Website
	}
	return info, nil
}

var _ port.MarketProvider = (*Client)(nil)
