package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stockdash/internal/domain/model"
)

type fakeStocks struct {
	series map[string][]model.PriceBar
	err    error
}

func (f *fakeStocks) GetPriceSeries(ctx context.Context, symbol string) ([]model.PriceBar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.series[model.NormalizeSymbol(symbol)], nil
}

func (f *fakeStocks) GetIndicators(ctx context.Context, symbol string) ([]model.IndicatorRow, error) {
	bars, err := f.GetPriceSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}
	rows := make([]model.IndicatorRow, len(bars))
	for i, b := range bars {
		rows[i] = model.IndicatorRow{Date: b.Date, Close: b.Close}
	}
	return rows, nil
}

type fakeCompanies struct {
	profiles map[string]model.CompanyInfo
	list     []model.CompanyInfo
	err      error
}

func (f *fakeCompanies) GetCompanyInfo(ctx context.Context, symbol string) model.CompanyInfo {
	return f.profiles[model.NormalizeSymbol(symbol)]
}

func (f *fakeCompanies) ListCompanies(ctx context.Context, page, limit int) ([]model.CompanyInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func oneBar(symbol string) []model.PriceBar {
	return []model.PriceBar{{
		Symbol: symbol,
		Date:   model.NewDay(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)),
		Open:   100, High: 101, Low: 99, Close: 100.5, Volume: 1000,
	}}
}

func newTestRouter(stocks *fakeStocks, companies *fakeCompanies) http.Handler {
	if stocks == nil {
		stocks = &fakeStocks{series: map[string][]model.PriceBar{}}
	}
	if companies == nil {
		companies = &fakeCompanies{profiles: map[string]model.CompanyInfo{}}
	}
	return NewRouter(stocks, companies)
}

func TestFetchStock(t *testing.T) {
	router := newTestRouter(&fakeStocks{series: map[string][]model.PriceBar{"AAPL": oneBar("AAPL")}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/stocks/aapl", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var bars []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &bars); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if bars[0]["date"] != "2024-06-03" {
		t.Errorf("date should serialize as YYYY-MM-DD, got %v", bars[0]["date"])
	}
}

func TestFetchStockEmptyIsOK(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/stocks/ZZZZ", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("empty series must be 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %s", body)
	}
}

func TestFetchStockStoreFailureIs500(t *testing.T) {
	router := newTestRouter(&fakeStocks{err: errors.New("store down")}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/stocks/AAPL", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("store failure must be 500, got %d", rec.Code)
	}
}

func TestFetchIndicatorsNullFields(t *testing.T) {
	router := newTestRouter(&fakeStocks{series: map[string][]model.PriceBar{"AAPL": oneBar("AAPL")}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/stocks/AAPL/indicators", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	// Window not filled: nullable columns must be JSON null, not 0.
	if !strings.Contains(rec.Body.String(), `"sma_20":null`) {
		t.Errorf("expected null sma_20 in %s", rec.Body.String())
	}
}

func TestFetchCompanyInfoEmptyObject(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/stocks/ZZZZ/info", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "{}" {
		t.Errorf("expected {}, got %s", body)
	}
}

func TestBulkStocks(t *testing.T) {
	router := newTestRouter(&fakeStocks{series: map[string][]model.PriceBar{"AAPL": oneBar("AAPL")}}, nil)

	body := strings.NewReader(`["aapl", "zzzz"]`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/stocks/bulk", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var results map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(results))
	}
	if _, ok := results["AAPL"]; !ok {
		t.Errorf("symbols should be normalized to uppercase keys")
	}
}

func TestBulkStocksBadBody(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/stocks/bulk", strings.NewReader("not json")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestListStocks(t *testing.T) {
	companies := &fakeCompanies{
		profiles: map[string]model.CompanyInfo{},
		list: []model.CompanyInfo{
			{Symbol: "AAPL", Name: "Apple Inc."},
			{Symbol: "MSFT", Name: "Microsoft"},
		},
	}
	router := newTestRouter(nil, companies)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/stocks?page=1&limit=10", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var list []model.CompanyInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 companies, got %d", len(list))
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/stocks/AAPL", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}
